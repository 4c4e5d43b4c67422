package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	mferrors "github.com/otherjamesbrown/meetflow/pkg/errors"
	"github.com/otherjamesbrown/meetflow/pkg/logging"
)

// Engine resolves duplicate artifacts and moves aging files into a dated
// long-term archive rooted under <base>/archive.
type Engine struct {
	baseDir string

	transcriptionsDir string
	summariesDir      string
	processedDir      string

	archiveDir            string
	archiveTranscriptions string
	archiveSummaries      string
	archiveAudio          string

	continueOnError bool
	now             func() time.Time
	log             logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log logging.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithClock overrides the engine clock. Used by tests to pin stale cutoffs.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithContinueOnError controls whether a batch keeps going after a file
// fails to move. Defaults to true; failures are joined and reported at the
// end of the batch either way.
func WithContinueOnError(cont bool) Option {
	return func(e *Engine) { e.continueOnError = cont }
}

// NewEngine builds an Engine for the given base directory. No directories
// are created until a move actually happens, so a dry-run engine leaves the
// filesystem untouched.
func NewEngine(baseDir string, opts ...Option) *Engine {
	archiveDir := filepath.Join(baseDir, "archive")
	e := &Engine{
		baseDir:               baseDir,
		transcriptionsDir:     filepath.Join(baseDir, "transcriptions"),
		summariesDir:          filepath.Join(baseDir, "summaries"),
		processedDir:          filepath.Join(baseDir, "processed"),
		archiveDir:            archiveDir,
		archiveTranscriptions: filepath.Join(archiveDir, "transcriptions"),
		archiveSummaries:      filepath.Join(archiveDir, "summaries"),
		archiveAudio:          filepath.Join(archiveDir, "audio"),
		continueOnError:       true,
		now:                   time.Now,
		log:                   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CycleResult tallies what a full archive cycle did (or would do, under
// dry-run).
type CycleResult struct {
	TranscriptionDuplicates int
	SummaryDuplicates       int
	TranscriptionsStale     int
	SummariesStale          int
	ProcessedAudioArchived  int
	EmptyDirsRemoved        int
}

// Total returns the number of files moved plus directories removed.
func (r CycleResult) Total() int {
	return r.TranscriptionDuplicates + r.SummaryDuplicates +
		r.TranscriptionsStale + r.SummariesStale +
		r.ProcessedAudioArchived + r.EmptyDirsRemoved
}

// CycleOptions selects which phases a full cycle runs.
type CycleOptions struct {
	// RemoveDuplicates archives older copies of artifacts sharing a base name.
	RemoveDuplicates bool

	// ArchiveStale archives files whose modification time predates the
	// DaysOld cutoff.
	ArchiveStale bool

	// ArchiveProcessedAudio applies the stale cutoff to processed audio too.
	ArchiveProcessedAudio bool

	// DaysOld is the stale threshold in days. Zero means 30.
	DaysOld int

	// DryRun logs and counts every planned move without touching files.
	DryRun bool
}

// RunFullCycle runs the selected phases in order: duplicates, stale files,
// processed audio, then empty-directory pruning under the archive root.
// Phases after a failed one still run; all failures come back joined.
func (e *Engine) RunFullCycle(opts CycleOptions) (CycleResult, error) {
	daysOld := opts.DaysOld
	if daysOld <= 0 {
		daysOld = 30
	}

	e.log.Info("starting archive cycle",
		logging.F("dry_run", opts.DryRun),
		logging.F("days_old", daysOld))

	var result CycleResult
	var errs []error

	if opts.RemoveDuplicates {
		n, err := e.ResolveDuplicates(e.transcriptionsDir, e.archiveTranscriptions, opts.DryRun)
		result.TranscriptionDuplicates = n
		if err != nil {
			errs = append(errs, err)
		}

		n, err = e.ResolveDuplicates(e.summariesDir, e.archiveSummaries, opts.DryRun)
		result.SummaryDuplicates = n
		if err != nil {
			errs = append(errs, err)
		}
	}

	if opts.ArchiveStale {
		n, err := e.ResolveStale(e.transcriptionsDir, e.archiveTranscriptions, daysOld, opts.DryRun)
		result.TranscriptionsStale = n
		if err != nil {
			errs = append(errs, err)
		}

		n, err = e.ResolveStale(e.summariesDir, e.archiveSummaries, daysOld, opts.DryRun)
		result.SummariesStale = n
		if err != nil {
			errs = append(errs, err)
		}
	}

	if opts.ArchiveProcessedAudio {
		n, err := e.ResolveStale(e.processedDir, e.archiveAudio, daysOld, opts.DryRun)
		result.ProcessedAudioArchived = n
		if err != nil {
			errs = append(errs, err)
		}
	}

	n, err := e.PruneEmptyDirs(e.archiveDir, opts.DryRun)
	result.EmptyDirsRemoved = n
	if err != nil {
		errs = append(errs, err)
	}

	return result, errors.Join(errs...)
}

// ResolveDuplicates archives every older copy within each base-name group,
// keeping only the latest. Singleton groups are untouched. Returns the number
// of files moved (or that would move, under dry-run).
func (e *Engine) ResolveDuplicates(dir, targetRoot string, dryRun bool) (int, error) {
	groups, err := GroupByBaseName(dir)
	if err != nil {
		return 0, mferrors.NewPipelineError(mferrors.ErrMoveFailed, mferrors.StageArchival,
			fmt.Sprintf("scan %s", dir), err)
	}

	moved := 0
	var errs []error
	for _, group := range groups {
		if len(group) <= 1 {
			continue
		}
		latest := Latest(group)

		for _, a := range group {
			if a.Path == latest.Path {
				continue
			}
			dest := BucketPath(a, targetRoot)
			if err := e.move(a.Path, dest, dryRun); err != nil {
				errs = append(errs, err)
				if !e.continueOnError {
					return moved, errors.Join(errs...)
				}
				continue
			}
			moved++
		}
	}

	return moved, errors.Join(errs...)
}

// ResolveStale archives files whose modification time is older than daysOld
// days. Files moved by this pass keep their dated bucket from the filename
// timestamp when present.
func (e *Engine) ResolveStale(dir, targetRoot string, daysOld int, dryRun bool) (int, error) {
	artifacts, err := ListArtifacts(dir)
	if err != nil {
		return 0, mferrors.NewPipelineError(mferrors.ErrMoveFailed, mferrors.StageArchival,
			fmt.Sprintf("scan %s", dir), err)
	}

	cutoff := e.now().AddDate(0, 0, -daysOld)
	moved := 0
	var errs []error
	for _, a := range artifacts {
		if !a.ModifiedAt.Before(cutoff) {
			continue
		}
		dest := BucketPath(a, targetRoot)
		if err := e.move(a.Path, dest, dryRun); err != nil {
			errs = append(errs, err)
			if !e.continueOnError {
				return moved, errors.Join(errs...)
			}
			continue
		}
		moved++
	}

	return moved, errors.Join(errs...)
}

// PruneEmptyDirs removes empty directories below root, deepest first, so a
// directory left empty by its children's removal is pruned in the same pass.
// The root itself is never removed. Symbolic links are not followed.
func (e *Engine) PruneEmptyDirs(root string, dryRun bool) (int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(root, entry.Name())

		n, err := e.PruneEmptyDirs(sub, dryRun)
		removed += n
		if err != nil {
			return removed, err
		}

		remaining, err := os.ReadDir(sub)
		if err != nil {
			return removed, err
		}
		if len(remaining) > 0 {
			continue
		}

		if dryRun {
			e.log.Info("would remove empty directory", logging.F("path", sub))
		} else {
			if err := os.Remove(sub); err != nil {
				return removed, err
			}
			e.log.Info("removed empty directory", logging.F("path", sub))
		}
		removed++
	}

	return removed, nil
}

// ArchiveProcessedAudio moves an audio file into processed/ under the name
// <base>_processed_<YYYYMMDD><ext>. A same-day collision gets a numeric
// suffix rather than overwriting.
func (e *Engine) ArchiveProcessedAudio(audioPath string) (string, error) {
	if err := os.MkdirAll(e.processedDir, 0o755); err != nil {
		return "", mferrors.NewPipelineError(mferrors.ErrMoveFailed, mferrors.StageArchival,
			"create processed directory", err)
	}

	ext := filepath.Ext(audioPath)
	base := strings.TrimSuffix(filepath.Base(audioPath), ext)
	stamp := e.now().Format("20060102")

	dest := filepath.Join(e.processedDir, fmt.Sprintf("%s_processed_%s%s", base, stamp, ext))
	for i := 1; ; i++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			break
		}
		dest = filepath.Join(e.processedDir, fmt.Sprintf("%s_processed_%s_%d%s", base, stamp, i, ext))
	}

	if err := e.move(audioPath, dest, false); err != nil {
		return "", err
	}
	return dest, nil
}

// Duplicates maps a category ("transcriptions" or "summaries") to the
// base names with more than one copy and the filenames in each group.
type Duplicates map[string]map[string][]string

// ListDuplicates reports duplicate groups without moving anything.
func (e *Engine) ListDuplicates() (Duplicates, error) {
	dupes := make(Duplicates)

	for category, dir := range map[string]string{
		"transcriptions": e.transcriptionsDir,
		"summaries":      e.summariesDir,
	} {
		groups, err := GroupByBaseName(dir)
		if err != nil {
			return nil, err
		}
		for base, files := range groups {
			if len(files) <= 1 {
				continue
			}
			if dupes[category] == nil {
				dupes[category] = make(map[string][]string)
			}
			names := make([]string, 0, len(files))
			for _, f := range files {
				names = append(names, filepath.Base(f.Path))
			}
			dupes[category][base] = names
		}
	}

	return dupes, nil
}

// Stats counts active and archived files per category.
type Stats struct {
	Transcriptions         int
	Summaries              int
	ProcessedAudio         int
	ArchivedTranscriptions int
	ArchivedSummaries      int
	ArchivedAudio          int
}

// CollectStats counts files in the active directories and, recursively, in
// the archive trees. Missing directories count as zero.
func (e *Engine) CollectStats() (Stats, error) {
	countFlat := func(dir string) (int, error) {
		artifacts, err := ListArtifacts(dir)
		return len(artifacts), err
	}
	countDeep := func(dir string) (int, error) {
		count := 0
		err := filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				count++
			}
			return nil
		})
		if err != nil && os.IsNotExist(err) {
			return 0, nil
		}
		return count, err
	}

	var stats Stats
	var err error
	if stats.Transcriptions, err = countFlat(e.transcriptionsDir); err != nil {
		return stats, err
	}
	if stats.Summaries, err = countFlat(e.summariesDir); err != nil {
		return stats, err
	}
	if stats.ProcessedAudio, err = countFlat(e.processedDir); err != nil {
		return stats, err
	}
	if stats.ArchivedTranscriptions, err = countDeep(e.archiveTranscriptions); err != nil {
		return stats, err
	}
	if stats.ArchivedSummaries, err = countDeep(e.archiveSummaries); err != nil {
		return stats, err
	}
	if stats.ArchivedAudio, err = countDeep(e.archiveAudio); err != nil {
		return stats, err
	}
	return stats, nil
}

// move relocates src to dest, creating the destination bucket on demand.
// Rename is attempted first; a copy-and-remove fallback covers cross-device
// moves.
func (e *Engine) move(src, dest string, dryRun bool) error {
	if dryRun {
		e.log.Info("would archive file",
			logging.F("src", src),
			logging.F("dest", dest))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return mferrors.NewPipelineError(mferrors.ErrMoveFailed, mferrors.StageArchival,
			fmt.Sprintf("create bucket for %s", filepath.Base(dest)), err)
	}

	if err := os.Rename(src, dest); err != nil {
		if err := copyFile(src, dest); err != nil {
			return mferrors.NewPipelineError(mferrors.ErrMoveFailed, mferrors.StageArchival,
				fmt.Sprintf("move %s", filepath.Base(src)), err)
		}
		if err := os.Remove(src); err != nil {
			return mferrors.NewPipelineError(mferrors.ErrMoveFailed, mferrors.StageArchival,
				fmt.Sprintf("remove source %s", filepath.Base(src)), err)
		}
	}

	e.log.Info("archived file",
		logging.F("src", src),
		logging.F("dest", dest))
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

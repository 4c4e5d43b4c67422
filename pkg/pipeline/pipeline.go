package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/otherjamesbrown/meetflow/pkg/classify"
	mferrors "github.com/otherjamesbrown/meetflow/pkg/errors"
	"github.com/otherjamesbrown/meetflow/pkg/logging"
	"github.com/otherjamesbrown/meetflow/pkg/notion"
	"github.com/otherjamesbrown/meetflow/pkg/prompt"
	"github.com/otherjamesbrown/meetflow/pkg/transcribe"
)

// Transcriber is the speech-to-text collaborator.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts transcribe.Options) (transcribe.Transcript, error)
	Model() string
}

// Generator is the summarization collaborator.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Publisher is the workspace collaborator.
type Publisher interface {
	CreateMeetingPage(ctx context.Context, req notion.PageRequest) (string, error)
	CreateTask(ctx context.Context, task notion.Task) (string, error)
}

// Archiver moves a processed recording out of the input directory.
type Archiver interface {
	ArchiveProcessedAudio(audioPath string) (string, error)
}

// Deps wires the pipeline's collaborators. Transcriber may be nil only when
// every run skips transcription; Publisher may be nil when publishing is
// skipped.
type Deps struct {
	Transcriber Transcriber
	Generator   Generator
	Publisher   Publisher
	Archiver    Archiver
	Logger      logging.Logger
}

// Pipeline runs the meeting workflow. Runs are sequential; the summary
// cache is single-writer.
type Pipeline struct {
	deps        Deps
	baseDir     string
	userContext prompt.UserContext
	cache       *prompt.SummaryCache
	log         logging.Logger
	now         func() time.Time
	newRunID    func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCacheSize bounds the summary cache. Zero or negative disables caching.
func WithCacheSize(n int) Option {
	return func(p *Pipeline) { p.cache = prompt.NewSummaryCache(n) }
}

// New builds a Pipeline rooted at baseDir, which holds the transcriptions/,
// summaries/, and audio_input/ directories.
func New(baseDir string, userContext prompt.UserContext, deps Deps, opts ...Option) *Pipeline {
	log := deps.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}
	p := &Pipeline{
		deps:        deps,
		baseDir:     baseDir,
		userContext: userContext,
		cache:       prompt.NewSummaryCache(16),
		log:         log,
		now:         time.Now,
		newRunID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunOptions control a single pipeline run.
type RunOptions struct {
	AudioFile string

	// MeetingType pins the category; empty means auto-detect.
	MeetingType string

	// CustomPrompt and CustomRole override prompt assembly, see prompt.Request.
	CustomPrompt string
	CustomRole   string

	Language     string
	Temperature  float64
	Participants []string

	// PreviousSummary adds last meeting's summary as prompt context.
	PreviousSummary string

	SkipTranscribe bool
	SkipSummarize  bool
	SkipPublish    bool
	NoArchive      bool

	WithTimestamps bool
}

// Process runs the full workflow for one recording. Errors are accumulated
// in the result, never returned: a transcription failure is fatal to the
// run, later failures leave everything already produced intact.
func (p *Pipeline) Process(ctx context.Context, opts RunOptions) *Result {
	result := &Result{
		RunID:     p.newRunID(),
		AudioFile: opts.AudioFile,
		State:     StatePending,
	}

	log := p.log.With(
		logging.F("run_id", result.RunID),
		logging.F("audio", filepath.Base(opts.AudioFile)))

	// Stage 1: transcription. Nothing downstream has input without it.
	if opts.SkipTranscribe {
		transcript, file, err := p.loadExistingTranscript(opts.AudioFile)
		if err != nil {
			result.fail(mferrors.StageTranscription, err.Error())
			return result
		}
		result.Transcript = transcript
		result.TranscriptFile = file
		log.Info("using existing transcript", logging.F("file", file))
	} else {
		log.Info("transcribing audio")
		t, err := p.deps.Transcriber.Transcribe(ctx, opts.AudioFile, transcribe.Options{
			Language:    opts.Language,
			Temperature: opts.Temperature,
		})
		if err != nil {
			pe := mferrors.Classify(err, mferrors.StageTranscription)
			result.fail(mferrors.StageTranscription, pe.Error())
			return result
		}
		result.Transcript = t.Text

		// Persist immediately so a later failure never loses it.
		file, err := p.saveTranscript(opts.AudioFile, t, opts.WithTimestamps)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("save transcript: %v", err))
		} else {
			result.TranscriptFile = file
			log.Info("transcript saved", logging.F("file", file))
		}
	}
	result.State = StateTranscribed

	// Stage 2: classification and summarization.
	if !opts.SkipSummarize {
		p.summarize(ctx, opts, result, log)
	}

	// Stage 3: publishing, only with a summary in hand.
	if !opts.SkipPublish && result.Summary != "" {
		p.publish(ctx, opts, result, log)
	}

	// Stage 4: archival of the source recording. Skipped after any failure
	// so a broken run leaves its input where the operator can retry it.
	if result.OK() && !opts.NoArchive {
		p.archiveAudio(opts.AudioFile, result, log)
	}

	return result
}

// ProcessCombined transcribes several recordings and produces one combined
// summary. Each file's transcript is persisted individually; the summary
// covers the concatenation. Recordings are processed sequentially.
func (p *Pipeline) ProcessCombined(ctx context.Context, files []string, opts RunOptions) *Result {
	result := &Result{
		RunID:     p.newRunID(),
		AudioFile: strings.Join(files, ","),
		State:     StatePending,
	}
	log := p.log.With(logging.F("run_id", result.RunID), logging.F("files", len(files)))

	var parts, savedFiles []string
	for _, file := range files {
		t, err := p.deps.Transcriber.Transcribe(ctx, file, transcribe.Options{
			Language:    opts.Language,
			Temperature: opts.Temperature,
		})
		if err != nil {
			pe := mferrors.Classify(err, mferrors.StageTranscription)
			result.fail(mferrors.StageTranscription, fmt.Sprintf("%s: %s", filepath.Base(file), pe.Error()))
			return result
		}
		if saved, err := p.saveTranscript(file, t, opts.WithTimestamps); err == nil {
			savedFiles = append(savedFiles, saved)
		}
		parts = append(parts, fmt.Sprintf("=== %s ===\n%s", filepath.Base(file), strings.TrimSpace(t.Text)))
	}
	// Every part's transcript is an artifact of the run, not just the last.
	result.TranscriptFile = strings.Join(savedFiles, ", ")
	result.Transcript = strings.Join(parts, "\n\n")
	result.State = StateTranscribed

	if !opts.SkipSummarize {
		combined := opts
		combined.AudioFile = files[0]
		p.summarize(ctx, combined, result, log)
	}
	if !opts.SkipPublish && result.Summary != "" {
		combined := opts
		combined.AudioFile = files[0]
		p.publish(ctx, combined, result, log)
	}
	if result.OK() && !opts.NoArchive {
		for _, file := range files {
			p.archiveAudio(file, result, log)
		}
	}

	return result
}

func (p *Pipeline) summarize(ctx context.Context, opts RunOptions, result *Result, log logging.Logger) {
	// Category: pinned when valid, detected otherwise.
	if opts.MeetingType != "" {
		cat, err := classify.ParseCategory(opts.MeetingType)
		if err == nil {
			result.Category = cat
			result.Confidence = 1.0
			log.Info("using pinned meeting type", logging.F("category", cat.String()))
		} else {
			log.Warn("invalid meeting type, auto-detecting", logging.F("value", opts.MeetingType))
		}
	}
	if result.Category == "" {
		res := classify.Classify(result.Transcript, opts.Participants)
		result.Category = res.Category
		result.Confidence = res.Confidence
		log.Info("detected meeting type",
			logging.F("category", res.Category.String()),
			logging.F("confidence", fmt.Sprintf("%.2f", res.Confidence)))
	}

	// Key on everything that shapes the prompt, not just the transcript, so
	// a re-run with a different pinned type or override is never served the
	// other variant's summary.
	cacheKey := strings.Join([]string{
		string(result.Category), opts.CustomPrompt, opts.CustomRole,
		opts.PreviousSummary, result.Transcript,
	}, "\x00")

	if cached, ok := p.cache.Get(cacheKey); ok {
		result.Summary = cached
		log.Debug("summary served from cache")
	} else {
		systemPrompt, userPrompt := prompt.Compose(prompt.Request{
			Category:        result.Category,
			Transcript:      result.Transcript,
			Context:         p.userContext,
			PreviousSummary: opts.PreviousSummary,
			CustomPrompt:    opts.CustomPrompt,
			CustomRole:      opts.CustomRole,
		})

		summary, err := p.deps.Generator.Generate(ctx, systemPrompt, userPrompt)
		if err != nil {
			pe := mferrors.Classify(err, mferrors.StageSummarization)
			result.fail(mferrors.StageSummarization, pe.Error())
			return
		}
		result.Summary = summary
		p.cache.Put(cacheKey, summary)
	}

	// Persist before publishing so a publish failure never loses the summary.
	file, err := p.saveSummary(opts.AudioFile, result)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("save summary: %v", err))
		return
	}
	result.SummaryFile = file
	result.State = StateSummarized
	log.Info("summary saved", logging.F("file", file))
}

func (p *Pipeline) publish(ctx context.Context, opts RunOptions, result *Result, log logging.Logger) {
	title := MeetingTitle(stem(opts.AudioFile))

	url, err := p.deps.Publisher.CreateMeetingPage(ctx, notion.PageRequest{
		Title:        title,
		Transcript:   result.Transcript,
		Summary:      result.Summary,
		AudioFile:    opts.AudioFile,
		Participants: opts.Participants,
	})
	if err != nil {
		pe := mferrors.Classify(err, mferrors.StagePublishing)
		result.fail(mferrors.StagePublishing, pe.Error())
		return
	}
	result.NotionPage = url
	log.Info("meeting page created", logging.F("url", url))

	for _, item := range ExtractActionItems(result.Summary) {
		taskURL, err := p.deps.Publisher.CreateTask(ctx, notion.Task{
			Task:     item.Task,
			Owner:    item.Owner,
			DueDate:  item.DueDate,
			Priority: item.Priority,
		})
		if err != nil {
			// Task creation failures don't fail the stage; the page exists.
			result.Errors = append(result.Errors, fmt.Sprintf("create task %q: %v", item.Task, err))
			continue
		}
		result.TaskURLs = append(result.TaskURLs, taskURL)
	}

	result.State = StatePublished
}

func (p *Pipeline) archiveAudio(audioFile string, result *Result, log logging.Logger) {
	// Only recordings dropped into audio_input/ are moved; anything else
	// was pointed at in place and stays there.
	if !strings.Contains(audioFile, "audio_input") {
		log.Info("audio not in audio_input, skipping archive")
		return
	}
	archived, err := p.deps.Archiver.ArchiveProcessedAudio(audioFile)
	if err != nil {
		pe := mferrors.Classify(err, mferrors.StageArchival)
		result.fail(mferrors.StageArchival, pe.Error())
		return
	}
	result.ArchivedFile = archived
	result.State = StateArchived
	log.Info("audio archived", logging.F("file", archived))
}

// loadExistingTranscript finds the newest transcript file for the recording
// and extracts its body.
func (p *Pipeline) loadExistingTranscript(audioFile string) (text, file string, err error) {
	dir := filepath.Join(p.baseDir, "transcriptions")
	pattern := filepath.Join(dir, stem(audioFile)+"_transcription_*.txt")
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return "", "", fmt.Errorf("no existing transcript found for %s: %w", stem(audioFile), mferrors.ErrNotFound)
	}

	newest := matches[0]
	var newestMod time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if info.ModTime().After(newestMod) {
			newest = m
			newestMod = info.ModTime()
		}
	}

	data, err := os.ReadFile(newest)
	if err != nil {
		return "", "", fmt.Errorf("read transcript: %w", err)
	}
	return transcribe.ExtractFullText(string(data)), newest, nil
}

func (p *Pipeline) saveTranscript(audioFile string, t transcribe.Transcript, withTimestamps bool) (string, error) {
	dir := filepath.Join(p.baseDir, "transcriptions")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	model := ""
	if p.deps.Transcriber != nil {
		model = p.deps.Transcriber.Model()
	}
	content := transcribe.Render(t, transcribe.RenderOptions{
		AudioPath:      audioFile,
		Model:          model,
		GeneratedAt:    p.now(),
		WithTimestamps: withTimestamps,
	})

	file := filepath.Join(dir, fmt.Sprintf("%s_transcription_%s.txt",
		stem(audioFile), p.now().Format("20060102_150405")))
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		return "", err
	}
	return file, nil
}

func (p *Pipeline) saveSummary(audioFile string, result *Result) (string, error) {
	dir := filepath.Join(p.baseDir, "summaries")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	rule := strings.Repeat("-", 50)
	content := fmt.Sprintf(`Meeting Summary: %s
Generated: %s
Audio File: %s
Meeting Type: %s (confidence %.2f)

%s
SUMMARY
%s

%s

%s
FULL TRANSCRIPT
%s

%s
`, stem(audioFile), p.now().Format("2006-01-02 15:04:05"), audioFile,
		result.Category, result.Confidence,
		rule, rule, result.Summary, rule, rule, result.Transcript)

	file := filepath.Join(dir, fmt.Sprintf("%s_summary_%s.txt",
		stem(audioFile), p.now().Format("20060102_150405")))
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		return "", err
	}
	return file, nil
}

// MeetingTitle derives a readable page title from a recording's base name.
// Names following the date-person-frequency-type convention (for example
// "20250804-james-weekly-1-2-1") become "James Weekly 1:2:1"; anything
// else is title-cased with separators turned into spaces.
func MeetingTitle(baseName string) string {
	parts := strings.Split(baseName, "-")
	if len(parts) < 3 {
		replaced := strings.NewReplacer("_", " ", "-", " ").Replace(baseName)
		return titleCase(replaced)
	}

	person := titleCase(parts[1])
	frequency := titleCase(parts[2])
	var meetingType string
	if len(parts) > 3 {
		meetingType = strings.Join(parts[3:], ":")
	}

	switch {
	case meetingType != "" && frequency != "":
		return fmt.Sprintf("%s %s %s", person, frequency, meetingType)
	case meetingType != "":
		return fmt.Sprintf("%s %s", person, meetingType)
	case frequency != "":
		return fmt.Sprintf("%s %s", person, frequency)
	default:
		return person + " Meeting"
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

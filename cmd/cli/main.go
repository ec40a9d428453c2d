package main

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"

	"kinovek-client/config"
	"kinovek-client/internal/domain"
	"kinovek-client/internal/gateway"
	"kinovek-client/internal/usecase"
	"kinovek-client/pkg/logger"
)

const usage = `Usage: kinovek <command> [flags]

Commands:
  health        Check that the analysis service is reachable
  job-match     Score your resume against a job description
  enhance       Full enhancement analysis with suggestions
  ats-score     ATS compatibility score and breakdown
  ats-convert   Convert your resume to an ATS-friendly document
  cover-letter  Generate a cover letter for a job description

Flags:
  -r, --resume    path to your resume (.pdf or .docx)
  -j, --job       job description text
      --job-file  read the job description from a file
  -o, --out       output path for converted documents
`

// consoleNotifier is the toast analog for the terminal.
type consoleNotifier struct{}

func (consoleNotifier) Success(message string) {
	fmt.Fprintln(os.Stderr, "✓ "+message)
}

func (consoleNotifier) Error(message string) {
	fmt.Fprintln(os.Stderr, "✗ "+message)
}

func main() {
	resumePath := pflag.StringP("resume", "r", "", "path to resume file (.pdf or .docx)")
	jobText := pflag.StringP("job", "j", "", "job description text")
	jobFile := pflag.String("job-file", "", "path to a file containing the job description")
	outPath := pflag.StringP("out", "o", "", "output path for the converted document")
	pflag.Parse()

	command := pflag.Arg(0)
	if command == "" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init()
	logger.Log.Debug("client configured", "base_url", cfg.APIBaseURL, "timeout_seconds", cfg.RequestTimeoutSeconds)

	opts := []gateway.Option{gateway.WithTimeout(cfg.RequestTimeout())}
	if cfg.SessionCookie != "" {
		opts = append(opts, gateway.WithSessionCookie(cfg.SessionCookieName, cfg.SessionCookie))
	}
	gw := gateway.NewClient(cfg.APIBaseURL, opts...)

	app := &app{
		cfg:      cfg,
		gateway:  gw,
		validate: validator.New(),
		notifier: consoleNotifier{},
	}

	ctx := context.Background()
	jobDescription, err := app.jobDescription(*jobText, *jobFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	switch command {
	case "health":
		err = app.health(ctx)
	case "job-match":
		err = app.jobMatch(ctx, *resumePath, jobDescription)
	case "enhance":
		err = app.enhance(ctx, *resumePath, jobDescription)
	case "ats-score":
		err = app.atsScore(ctx, *resumePath, jobDescription)
	case "ats-convert":
		err = app.atsConvert(ctx, *resumePath, *outPath)
	case "cover-letter":
		err = app.coverLetter(ctx, *resumePath, jobDescription)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", command, usage)
		os.Exit(2)
	}
	if err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg      *config.Config
	gateway  domain.AnalysisGateway
	validate *validator.Validate
	notifier domain.Notifier
}

// selectResume loads the file at path into a flow's upload state, running it
// through validation exactly as a picked or dropped file would be.
func (a *app) selectResume(state interface {
	Select(*domain.CandidateFile) domain.ValidationOutcome
}, path string) error {
	if path == "" {
		// Leave the slot empty; the flow reports the missing-resume message.
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read resume: %v\n", err)
		return err
	}
	candidate := &domain.CandidateFile{
		Name:     filepath.Base(path),
		MimeType: declaredMimeType(path),
		Data:     data,
	}
	if outcome := state.Select(candidate); !outcome.Accepted {
		return fmt.Errorf("%s", outcome.Message)
	}
	return nil
}

// declaredMimeType plays the role of the browser's declared type: a lookup
// by extension, with no content sniffing.
func declaredMimeType(path string) string {
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = mt[:i]
	}
	return strings.TrimSpace(mt)
}

func (a *app) jobDescription(text, file string) (string, error) {
	if file == "" {
		return text, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("cannot read job description: %w", err)
	}
	return string(data), nil
}

func (a *app) health(ctx context.Context) error {
	uc := usecase.NewHealthUsecase(a.gateway, a.notifier)
	payload, err := uc.Check(ctx)
	if err != nil {
		return err
	}
	out, _ := json.MarshalIndent(payload, "", "  ")
	fmt.Println(string(out))
	return nil
}

func (a *app) jobMatch(ctx context.Context, resumePath, jobDescription string) error {
	uc := usecase.NewJobMatchUsecase(a.gateway, a.validate, a.notifier, a.cfg.UploadConfiguration())
	if err := a.selectResume(uc.Upload(), resumePath); err != nil {
		return err
	}
	result, err := uc.Analyze(ctx, jobDescription)
	if err != nil {
		return err
	}
	fmt.Printf("Match score: %d%%\n", result.MatchScore)
	printKeywords("Matched keywords", result.MatchedKeywords)
	printKeywords("Missing keywords", result.MissingKeywords)
	return nil
}

func (a *app) enhance(ctx context.Context, resumePath, jobDescription string) error {
	uc := usecase.NewEnhanceUsecase(a.gateway, a.validate, a.notifier, a.cfg.UploadConfiguration())
	if err := a.selectResume(uc.Upload(), resumePath); err != nil {
		return err
	}
	result, err := uc.Enhance(ctx, jobDescription)
	if err != nil {
		return err
	}
	fmt.Printf("ATS score: %d%%\n", result.ATSScore)
	printKeywords("Matched keywords", result.MatchedKeywords)
	printKeywords("Missing keywords", result.MissingKeywords)
	if len(result.Suggestions) > 0 {
		fmt.Println("Suggestions:")
		for _, s := range result.Suggestions {
			fmt.Println("  - " + s)
		}
	}
	return nil
}

func (a *app) atsScore(ctx context.Context, resumePath, jobDescription string) error {
	uc := usecase.NewATSScoreUsecase(a.gateway, a.validate, a.notifier, a.cfg.UploadConfiguration())
	if err := a.selectResume(uc.Upload(), resumePath); err != nil {
		return err
	}
	report, err := uc.Check(ctx, jobDescription)
	if err != nil {
		return err
	}
	fmt.Printf("Overall ATS score: %d%%\n", report.OverallScore)
	for _, row := range report.Breakdown {
		fmt.Printf("  %-22s %3d%%  (%s)\n", row.Category, row.Score, row.Status)
	}
	if len(report.Suggestions) > 0 {
		fmt.Println("Suggestions:")
		for _, s := range report.Suggestions {
			fmt.Println("  - " + s)
		}
	}
	return nil
}

func (a *app) atsConvert(ctx context.Context, resumePath, outPath string) error {
	uc := usecase.NewATSConvertUsecase(a.gateway, a.validate, a.notifier, a.cfg.UploadConfiguration())
	if err := a.selectResume(uc.Upload(), resumePath); err != nil {
		return err
	}
	doc, err := uc.Convert(ctx)
	if err != nil {
		return err
	}
	if outPath == "" {
		outPath = doc.FileName
	}
	if err := os.WriteFile(outPath, doc.Data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "cannot write document: %v\n", err)
		return err
	}
	fmt.Printf("Saved %s (%d bytes)\n", outPath, len(doc.Data))
	return nil
}

func (a *app) coverLetter(ctx context.Context, resumePath, jobDescription string) error {
	uc := usecase.NewCoverLetterUsecase(a.gateway, a.validate, a.notifier, a.cfg.UploadConfiguration())
	if err := a.selectResume(uc.Upload(), resumePath); err != nil {
		return err
	}
	result, err := uc.Generate(ctx, jobDescription)
	if err != nil {
		return err
	}
	if result.CandidateName != "" || result.TargetRole != "" || result.CompanyName != "" {
		fmt.Printf("%s - %s at %s\n\n", result.CandidateName, result.TargetRole, result.CompanyName)
	}
	fmt.Println(result.CoverLetterText)
	return nil
}

func printKeywords(label string, keywords []string) {
	if len(keywords) == 0 {
		fmt.Printf("%s: none\n", label)
		return
	}
	fmt.Printf("%s: %s\n", label, strings.Join(keywords, ", "))
}

package usecase

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"kinovek-client/internal/domain"
)

const fallbackATSScore = "Failed to check ATS score"

// ScoreStatus buckets a category score for rendering.
type ScoreStatus string

const (
	StatusGood    ScoreStatus = "good"    // >= 80
	StatusWarning ScoreStatus = "warning" // >= 60
	StatusPoor    ScoreStatus = "poor"
)

// CategoryScore is one row of the ATS score breakdown.
type CategoryScore struct {
	Category string
	Score    int
	Status   ScoreStatus
}

// ATSScoreReport is the view model of the ATS score screen: the overall
// score, the per-category breakdown and suggestions derived from the weak
// categories.
type ATSScoreReport struct {
	OverallScore int
	Breakdown    []CategoryScore
	Suggestions  []string
}

type atsScoreInput struct {
	Resume         *domain.CandidateFile `validate:"required"`
	JobDescription string
}

// ATSScoreUsecase checks how well a resume survives automated screening.
// The job description is optional; when empty the service scores formatting
// and structure only.
type ATSScoreUsecase struct {
	flow
}

// NewATSScoreUsecase creates an ATS score flow instance.
func NewATSScoreUsecase(gw domain.AnalysisGateway, validate *validator.Validate, notifier domain.Notifier, cfg domain.UploadConfiguration) *ATSScoreUsecase {
	return &ATSScoreUsecase{flow: newFlow(gw, validate, notifier, cfg)}
}

// Check submits the held resume and maps the response to the report shown on
// screen.
func (u *ATSScoreUsecase) Check(ctx context.Context, jobDescription string) (*ATSScoreReport, error) {
	input := atsScoreInput{
		Resume:         u.state.File(),
		JobDescription: strings.TrimSpace(jobDescription),
	}
	if ferr := u.require(input, fallbackATSScore); ferr != nil {
		return nil, ferr
	}

	gen, err := u.begin()
	if err != nil {
		return nil, err
	}
	defer u.finish()

	result, err := u.gateway.ATSScore(ctx, domain.AnalysisRequest{
		Resume:         input.Resume,
		JobDescription: input.JobDescription,
	})
	if u.stale(gen) {
		return nil, ErrStale
	}
	if err != nil {
		return nil, u.fail(err, fallbackATSScore)
	}

	u.succeed("ATS analysis complete!")
	return buildReport(result), nil
}

func buildReport(result *domain.ATSScoreResult) *ATSScoreReport {
	report := &ATSScoreReport{
		OverallScore: result.OverallScore,
		Breakdown: []CategoryScore{
			{Category: "Keyword Relevance", Score: result.KeywordMatchScore, Status: statusFor(result.KeywordMatchScore)},
			{Category: "Formatting Compliance", Score: result.FormattingScore, Status: statusFor(result.FormattingScore)},
			{Category: "Section Completeness", Score: result.SectionCompletenessScore, Status: statusFor(result.SectionCompletenessScore)},
		},
	}
	if result.KeywordMatchScore < 80 {
		report.Suggestions = append(report.Suggestions, "Add more relevant keywords from the job description to your resume")
	}
	if result.FormattingScore < 80 {
		report.Suggestions = append(report.Suggestions, "Remove tables, images, or multi-column layouts for better ATS compatibility")
	}
	if result.SectionCompletenessScore < 80 {
		report.Suggestions = append(report.Suggestions, "Ensure your resume has Summary, Experience, Education, and Skills sections")
	}
	if result.OverallScore < 70 {
		report.Suggestions = append(report.Suggestions, "Consider restructuring your resume with standard section headers")
	}
	return report
}

func statusFor(score int) ScoreStatus {
	switch {
	case score >= 80:
		return StatusGood
	case score >= 60:
		return StatusWarning
	default:
		return StatusPoor
	}
}

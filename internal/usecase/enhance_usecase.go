package usecase

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"kinovek-client/internal/domain"
)

const fallbackEnhance = "Failed to enhance resume. Please try again."

type enhanceInput struct {
	Resume         *domain.CandidateFile `validate:"required"`
	JobDescription string
}

// EnhanceUsecase runs the full enhancement analysis: score, both keyword
// lists, suggestions and the per-section breakdown. The job description is
// optional here; without one the service scores against general ATS
// heuristics.
type EnhanceUsecase struct {
	flow
}

// NewEnhanceUsecase creates an enhancer flow instance.
func NewEnhanceUsecase(gw domain.AnalysisGateway, validate *validator.Validate, notifier domain.Notifier, cfg domain.UploadConfiguration) *EnhanceUsecase {
	return &EnhanceUsecase{flow: newFlow(gw, validate, notifier, cfg)}
}

// Enhance submits the held resume and returns the full analysis payload as
// the service produced it (scores rendered as given, no renormalization).
func (u *EnhanceUsecase) Enhance(ctx context.Context, jobDescription string) (*domain.EnhanceResult, error) {
	input := enhanceInput{
		Resume:         u.state.File(),
		JobDescription: strings.TrimSpace(jobDescription),
	}
	if ferr := u.require(input, fallbackEnhance); ferr != nil {
		return nil, ferr
	}

	gen, err := u.begin()
	if err != nil {
		return nil, err
	}
	defer u.finish()

	result, err := u.gateway.Enhance(ctx, domain.AnalysisRequest{
		Resume:         input.Resume,
		JobDescription: input.JobDescription,
	})
	if u.stale(gen) {
		return nil, ErrStale
	}
	if err != nil {
		return nil, u.fail(err, fallbackEnhance)
	}

	u.succeed("Enhancement complete! Your suggestions are ready.")
	return result, nil
}

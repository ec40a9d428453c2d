package usecase

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"kinovek-client/internal/domain"
)

const fallbackCoverLetter = "Failed to generate cover letter. Please try again."

type coverLetterInput struct {
	Resume         *domain.CandidateFile `validate:"required"`
	JobDescription string                `validate:"required"`
}

// CoverLetterUsecase generates a role-specific cover letter from the resume
// and the pasted job description. Both inputs are required.
type CoverLetterUsecase struct {
	flow
}

// NewCoverLetterUsecase creates a cover-letter flow instance.
func NewCoverLetterUsecase(gw domain.AnalysisGateway, validate *validator.Validate, notifier domain.Notifier, cfg domain.UploadConfiguration) *CoverLetterUsecase {
	return &CoverLetterUsecase{flow: newFlow(gw, validate, notifier, cfg)}
}

// Generate submits the held resume with the job description and returns the
// generated letter and its metadata.
func (u *CoverLetterUsecase) Generate(ctx context.Context, jobDescription string) (*domain.CoverLetterResult, error) {
	input := coverLetterInput{
		Resume:         u.state.File(),
		JobDescription: strings.TrimSpace(jobDescription),
	}
	if ferr := u.require(input, fallbackCoverLetter); ferr != nil {
		return nil, ferr
	}

	gen, err := u.begin()
	if err != nil {
		return nil, err
	}
	defer u.finish()

	result, err := u.gateway.CoverLetter(ctx, domain.AnalysisRequest{
		Resume:         input.Resume,
		JobDescription: input.JobDescription,
	})
	if u.stale(gen) {
		return nil, ErrStale
	}
	if err != nil {
		return nil, u.fail(err, fallbackCoverLetter)
	}

	u.succeed("Cover letter generated successfully! Ready for download.")
	return result, nil
}

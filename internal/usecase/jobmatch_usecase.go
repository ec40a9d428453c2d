package usecase

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"kinovek-client/internal/domain"
)

const fallbackJobMatch = "Failed to analyze resume. Please try again."

// JobMatchResult is the view model of the job-match screen: the match score
// plus both keyword lists in the order the service ranked them. The lists
// are rendered independently since the service does not guarantee
// disjointness.
type JobMatchResult struct {
	MatchScore      int
	MatchedKeywords []string
	MissingKeywords []string
}

type jobMatchInput struct {
	Resume         *domain.CandidateFile `validate:"required"`
	JobDescription string                `validate:"required"`
}

// JobMatchUsecase scores a resume against a pasted job description. It
// reuses the enhance endpoint and reads only the score and keyword lists.
type JobMatchUsecase struct {
	flow
}

// NewJobMatchUsecase creates a job-match flow instance.
func NewJobMatchUsecase(gw domain.AnalysisGateway, validate *validator.Validate, notifier domain.Notifier, cfg domain.UploadConfiguration) *JobMatchUsecase {
	return &JobMatchUsecase{flow: newFlow(gw, validate, notifier, cfg)}
}

// Analyze submits the held resume with the job description and returns the
// match view model. Local validation failures never reach the network.
func (u *JobMatchUsecase) Analyze(ctx context.Context, jobDescription string) (*JobMatchResult, error) {
	input := jobMatchInput{
		Resume:         u.state.File(),
		JobDescription: strings.TrimSpace(jobDescription),
	}
	if ferr := u.require(input, fallbackJobMatch); ferr != nil {
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
		return nil, u.fail(err, fallbackJobMatch)
	}

	u.succeed("Analysis complete! Your match score is ready.")
	return &JobMatchResult{
		MatchScore:      result.ATSScore,
		MatchedKeywords: result.MatchedKeywords,
		MissingKeywords: result.MissingKeywords,
	}, nil
}

package usecase

import (
	"context"

	"github.com/go-playground/validator/v10"

	"kinovek-client/internal/domain"
)

const fallbackATSConvert = "Failed to convert resume. Please try again."

type atsConvertInput struct {
	Resume *domain.CandidateFile `validate:"required"`
}

// ATSConvertUsecase rewrites a resume into an ATS-friendly document. No free
// text accompanies this operation; the response is a binary stream the
// caller saves or offers for download.
type ATSConvertUsecase struct {
	flow
}

// NewATSConvertUsecase creates a conversion flow instance.
func NewATSConvertUsecase(gw domain.AnalysisGateway, validate *validator.Validate, notifier domain.Notifier, cfg domain.UploadConfiguration) *ATSConvertUsecase {
	return &ATSConvertUsecase{flow: newFlow(gw, validate, notifier, cfg)}
}

// Convert submits the held resume and returns the converted document.
func (u *ATSConvertUsecase) Convert(ctx context.Context) (*domain.ConvertedDocument, error) {
	input := atsConvertInput{Resume: u.state.File()}
	if ferr := u.require(input, fallbackATSConvert); ferr != nil {
		return nil, ferr
	}

	gen, err := u.begin()
	if err != nil {
		return nil, err
	}
	defer u.finish()

	doc, err := u.gateway.ATSConvert(ctx, input.Resume)
	if u.stale(gen) {
		return nil, ErrStale
	}
	if err != nil {
		return nil, u.fail(err, fallbackATSConvert)
	}

	u.succeed("Your ATS-friendly resume is ready for download!")
	return doc, nil
}

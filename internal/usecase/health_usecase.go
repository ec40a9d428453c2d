package usecase

import (
	"context"

	"kinovek-client/internal/domain"
	"kinovek-client/pkg/errmsg"
)

const fallbackHealth = "Health check failed"

// HealthUsecase probes the analysis service. Unlike the feature flows it
// holds no upload state; it exists so screens can gate their submit buttons
// on reachability.
type HealthUsecase struct {
	gateway  domain.AnalysisGateway
	notifier domain.Notifier
}

func NewHealthUsecase(gw domain.AnalysisGateway, notifier domain.Notifier) *HealthUsecase {
	return &HealthUsecase{gateway: gw, notifier: notifier}
}

// Check returns the raw health payload, or a FlowError with the normalized
// connectivity message.
func (u *HealthUsecase) Check(ctx context.Context) (map[string]any, error) {
	payload, err := u.gateway.Health(ctx)
	if err != nil {
		message := errmsg.Normalize(err, fallbackHealth)
		if u.notifier != nil {
			u.notifier.Error(message)
		}
		return nil, &FlowError{Message: message, Err: err}
	}
	return payload, nil
}

package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kinovek-client/internal/domain"
	"kinovek-client/internal/usecase"
	"kinovek-client/pkg/errmsg"
	"kinovek-client/pkg/logger"
)

// Mock Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Health(ctx context.Context) (map[string]any, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockGateway) Enhance(ctx context.Context, req domain.AnalysisRequest) (*domain.EnhanceResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EnhanceResult), args.Error(1)
}

func (m *MockGateway) ATSScore(ctx context.Context, req domain.AnalysisRequest) (*domain.ATSScoreResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ATSScoreResult), args.Error(1)
}

func (m *MockGateway) ATSConvert(ctx context.Context, file *domain.CandidateFile) (*domain.ConvertedDocument, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConvertedDocument), args.Error(1)
}

func (m *MockGateway) CoverLetter(ctx context.Context, req domain.AnalysisRequest) (*domain.CoverLetterResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoverLetterResult), args.Error(1)
}

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) { n.successes = append(n.successes, message) }
func (n *recordingNotifier) Error(message string)   { n.errors = append(n.errors, message) }

func validResume() *domain.CandidateFile {
	return &domain.CandidateFile{
		Name:     "resume.pdf",
		MimeType: "application/pdf",
		Data:     []byte("%PDF-1.7 fake"),
	}
}

func TestJobMatchLocalValidation(t *testing.T) {
	validate := validator.New()

	t.Run("missing resume never reaches the gateway", func(t *testing.T) {
		gw := new(MockGateway)
		notifier := &recordingNotifier{}
		uc := usecase.NewJobMatchUsecase(gw, validate, notifier, domain.DefaultUploadConfiguration())

		_, err := uc.Analyze(context.Background(), "some job description")
		require.Error(t, err)
		var ferr *usecase.FlowError
		require.True(t, errors.As(err, &ferr))
		assert.Equal(t, "Please upload your resume first", ferr.Message)
		gw.AssertNotCalled(t, "Enhance", mock.Anything, mock.Anything)
		assert.Contains(t, notifier.errors, "Please upload your resume first")
	})

	t.Run("missing job description never reaches the gateway", func(t *testing.T) {
		gw := new(MockGateway)
		notifier := &recordingNotifier{}
		uc := usecase.NewJobMatchUsecase(gw, validate, notifier, domain.DefaultUploadConfiguration())
		uc.Upload().Select(validResume())

		_, err := uc.Analyze(context.Background(), "   \n\t ")
		require.Error(t, err)
		var ferr *usecase.FlowError
		require.True(t, errors.As(err, &ferr))
		assert.Equal(t, "Please paste the job description", ferr.Message)
		gw.AssertNotCalled(t, "Enhance", mock.Anything, mock.Anything)
	})
}

func TestJobMatchSuccessMapping(t *testing.T) {
	gw := new(MockGateway)
	notifier := &recordingNotifier{}
	uc := usecase.NewJobMatchUsecase(gw, validator.New(), notifier, domain.DefaultUploadConfiguration())
	uc.Upload().Select(validResume())

	gw.On("Enhance", mock.Anything, mock.MatchedBy(func(req domain.AnalysisRequest) bool {
		return req.Resume != nil && req.JobDescription == "Frontend role"
	})).Return(&domain.EnhanceResult{
		Success:         true,
		ATSScore:        72,
		MatchedKeywords: []string{"React"},
		MissingKeywords: []string{"AWS"},
	}, nil)

	result, err := uc.Analyze(context.Background(), "Frontend role")
	require.NoError(t, err)
	assert.Equal(t, 72, result.MatchScore)
	assert.Equal(t, []string{"React"}, result.MatchedKeywords)
	assert.Equal(t, []string{"AWS"}, result.MissingKeywords)
	assert.Contains(t, notifier.successes[len(notifier.successes)-1], "Analysis complete")
}

func TestJobMatchGatewayFailure(t *testing.T) {
	gw := new(MockGateway)
	notifier := &recordingNotifier{}
	uc := usecase.NewJobMatchUsecase(gw, validator.New(), notifier, domain.DefaultUploadConfiguration())
	uc.Upload().Select(validResume())

	gw.On("Enhance", mock.Anything, mock.Anything).Return(nil, &domain.GatewayError{
		Kind: domain.GatewayNetworkUnreachable,
		Err:  errors.New("dial tcp: connection refused"),
	})

	_, err := uc.Analyze(context.Background(), "Frontend role")
	require.Error(t, err)
	var ferr *usecase.FlowError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, errmsg.MsgServerUnreachable, ferr.Message)

	// the selected file survives the failure so a manual retry re-issues
	// the identical request
	require.NotNil(t, uc.Upload().File())
	assert.Equal(t, "resume.pdf", uc.Upload().File().Name)
}

func TestSingleFlight(t *testing.T) {
	gw := new(MockGateway)
	uc := usecase.NewJobMatchUsecase(gw, validator.New(), &recordingNotifier{}, domain.DefaultUploadConfiguration())
	uc.Upload().Select(validResume())

	entered := make(chan struct{})
	release := make(chan struct{})
	gw.On("Enhance", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(&domain.EnhanceResult{ATSScore: 50}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := uc.Analyze(context.Background(), "Frontend role")
		done <- err
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first request never reached the gateway")
	}

	assert.True(t, uc.Busy())
	_, err := uc.Analyze(context.Background(), "Frontend role")
	assert.ErrorIs(t, err, usecase.ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, uc.Busy())
}

func TestStaleResponseDiscarded(t *testing.T) {
	gw := new(MockGateway)
	notifier := &recordingNotifier{}
	uc := usecase.NewJobMatchUsecase(gw, validator.New(), notifier, domain.DefaultUploadConfiguration())
	uc.Upload().Select(validResume())

	entered := make(chan struct{})
	release := make(chan struct{})
	gw.On("Enhance", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(&domain.EnhanceResult{ATSScore: 99}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := uc.Analyze(context.Background(), "Frontend role")
		done <- err
	}()

	<-entered
	uc.Reset() // the screen went away mid-request
	close(release)

	assert.ErrorIs(t, <-done, usecase.ErrStale)
	// no completion notification for a result nobody will render
	assert.Empty(t, completionSuccesses(notifier))
}

// completionSuccesses strips the "file ready" notification Select emits.
func completionSuccesses(n *recordingNotifier) []string {
	var rest []string
	for _, msg := range n.successes {
		if len(msg) > 0 && msg[0] == '"' {
			continue
		}
		rest = append(rest, msg)
	}
	return rest
}

func TestFlowLogsCarryFlowID(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.Log
	logger.Log = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	defer func() { logger.Log = prev }()

	gw := new(MockGateway)
	uc := usecase.NewJobMatchUsecase(gw, validator.New(), &recordingNotifier{}, domain.DefaultUploadConfiguration())
	uc.Upload().Select(validResume())

	gw.On("Enhance", mock.Anything, mock.Anything).Return(nil, &domain.GatewayError{
		Kind:       domain.GatewayServerFault,
		StatusCode: 502,
	})

	_, err := uc.Analyze(context.Background(), "Frontend role")
	require.Error(t, err)

	// failure records carry the flow's id for log correlation
	logged := buf.String()
	assert.Contains(t, logged, "flow_id")
	assert.Contains(t, logged, uc.ID().String())
}

func TestATSScoreFlow(t *testing.T) {
	t.Run("job description is optional", func(t *testing.T) {
		gw := new(MockGateway)
		uc := usecase.NewATSScoreUsecase(gw, validator.New(), &recordingNotifier{}, domain.DefaultUploadConfiguration())
		uc.Upload().Select(validResume())

		gw.On("ATSScore", mock.Anything, mock.MatchedBy(func(req domain.AnalysisRequest) bool {
			return req.JobDescription == ""
		})).Return(&domain.ATSScoreResult{
			OverallScore:             85,
			KeywordMatchScore:        85,
			FormattingScore:          70,
			SectionCompletenessScore: 40,
		}, nil)

		report, err := uc.Check(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, 85, report.OverallScore)

		require.Len(t, report.Breakdown, 3)
		assert.Equal(t, usecase.StatusGood, report.Breakdown[0].Status)
		assert.Equal(t, usecase.StatusWarning, report.Breakdown[1].Status)
		assert.Equal(t, usecase.StatusPoor, report.Breakdown[2].Status)

		// weak formatting and sections each derive one suggestion
		assert.Len(t, report.Suggestions, 2)
	})

	t.Run("low overall score adds the restructuring hint", func(t *testing.T) {
		gw := new(MockGateway)
		uc := usecase.NewATSScoreUsecase(gw, validator.New(), &recordingNotifier{}, domain.DefaultUploadConfiguration())
		uc.Upload().Select(validResume())

		gw.On("ATSScore", mock.Anything, mock.Anything).Return(&domain.ATSScoreResult{
			OverallScore:             55,
			KeywordMatchScore:        50,
			FormattingScore:          60,
			SectionCompletenessScore: 55,
		}, nil)

		report, err := uc.Check(context.Background(), "")
		require.NoError(t, err)
		assert.Len(t, report.Suggestions, 4)
	})
}

func TestCoverLetterFlow(t *testing.T) {
	t.Run("requires the job description", func(t *testing.T) {
		gw := new(MockGateway)
		uc := usecase.NewCoverLetterUsecase(gw, validator.New(), &recordingNotifier{}, domain.DefaultUploadConfiguration())
		uc.Upload().Select(validResume())

		_, err := uc.Generate(context.Background(), "")
		require.Error(t, err)
		gw.AssertNotCalled(t, "CoverLetter", mock.Anything, mock.Anything)
	})

	t.Run("returns the generated letter", func(t *testing.T) {
		gw := new(MockGateway)
		uc := usecase.NewCoverLetterUsecase(gw, validator.New(), &recordingNotifier{}, domain.DefaultUploadConfiguration())
		uc.Upload().Select(validResume())

		gw.On("CoverLetter", mock.Anything, mock.Anything).Return(&domain.CoverLetterResult{
			CoverLetterText: "Dear team,",
			CandidateName:   "Ada Lovelace",
			TargetRole:      "Staff Engineer",
			CompanyName:     "Kinovek",
		}, nil)

		result, err := uc.Generate(context.Background(), "Staff engineer role")
		require.NoError(t, err)
		assert.Equal(t, "Dear team,", result.CoverLetterText)
	})
}

func TestATSConvertFlow(t *testing.T) {
	t.Run("requires a resume", func(t *testing.T) {
		gw := new(MockGateway)
		uc := usecase.NewATSConvertUsecase(gw, validator.New(), &recordingNotifier{}, domain.DefaultUploadConfiguration())

		_, err := uc.Convert(context.Background())
		require.Error(t, err)
		gw.AssertNotCalled(t, "ATSConvert", mock.Anything, mock.Anything)
	})

	t.Run("returns the converted document", func(t *testing.T) {
		gw := new(MockGateway)
		uc := usecase.NewATSConvertUsecase(gw, validator.New(), &recordingNotifier{}, domain.DefaultUploadConfiguration())
		uc.Upload().Select(validResume())

		gw.On("ATSConvert", mock.Anything, mock.Anything).Return(&domain.ConvertedDocument{
			Data:     []byte("binary-doc"),
			FileName: "ATS_Friendly_Resume.pdf",
		}, nil)

		doc, err := uc.Convert(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []byte("binary-doc"), doc.Data)
	})
}

func TestEnhanceFlow(t *testing.T) {
	gw := new(MockGateway)
	uc := usecase.NewEnhanceUsecase(gw, validator.New(), &recordingNotifier{}, domain.DefaultUploadConfiguration())
	uc.Upload().Select(validResume())

	gw.On("Enhance", mock.Anything, mock.MatchedBy(func(req domain.AnalysisRequest) bool {
		// the job description is optional here: empty still dispatches
		return req.JobDescription == ""
	})).Return(&domain.EnhanceResult{
		ATSScore:    64,
		Suggestions: []string{"Quantify achievements"},
	}, nil)

	result, err := uc.Enhance(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 64, result.ATSScore)
	assert.Equal(t, []string{"Quantify achievements"}, result.Suggestions)
}

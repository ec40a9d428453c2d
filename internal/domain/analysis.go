package domain

import "context"

// AnalysisRequest is what a feature flow hands to the gateway: the accepted
// resume plus the free-text job description. Whether JobDescription may be
// empty depends on the flow (required for job-match and cover-letter,
// optional elsewhere).
type AnalysisRequest struct {
	Resume         *CandidateFile
	JobDescription string
}

// EnhanceResult is the response of POST /resume/enhance. The job-match
// screen reuses this endpoint and reads only the score and keyword lists.
//
// Scores are clamped to [0,100] by the server contract; the client renders
// them as given and never renormalizes. The keyword lists keep the service's
// order (relevance order) and are treated independently; disjointness is
// not assumed.
type EnhanceResult struct {
	Success         bool           `json:"success"`
	ATSScore        int            `json:"atsScore"`
	MatchedKeywords []string       `json:"matchedKeywords"`
	MissingKeywords []string       `json:"missingKeywords"`
	Suggestions     []string       `json:"suggestions"`
	SectionAnalysis map[string]any `json:"sectionAnalysis"`
}

// ATSScoreResult is the response of POST /resume/ats-score.
type ATSScoreResult struct {
	Success                  bool           `json:"success"`
	OverallScore             int            `json:"overallScore"`
	KeywordMatchScore        int            `json:"keywordMatchScore"`
	FormattingScore          int            `json:"formattingScore"`
	SectionCompletenessScore int            `json:"sectionCompletenessScore"`
	SectionBreakdown         map[string]any `json:"sectionBreakdown"`
}

// CoverLetterResult is the data payload of POST /cover-letter/generate.
type CoverLetterResult struct {
	CoverLetterText string `json:"coverLetterText"`
	CandidateName   string `json:"candidateName"`
	TargetRole      string `json:"targetRole"`
	CompanyName     string `json:"companyName"`
}

// ConvertedDocument is the binary stream returned by POST /resume/ats-convert.
type ConvertedDocument struct {
	Data        []byte
	ContentType string
	FileName    string
}

// AnalysisGateway is the request side of the pipeline: one operation per
// endpoint, each either resolving with the typed response or failing with a
// *GatewayError. The gateway performs no retries and no interpretation of
// failure content; that is the normalizer's job.
type AnalysisGateway interface {
	Health(ctx context.Context) (map[string]any, error)
	Enhance(ctx context.Context, req AnalysisRequest) (*EnhanceResult, error)
	ATSScore(ctx context.Context, req AnalysisRequest) (*ATSScoreResult, error)
	ATSConvert(ctx context.Context, file *CandidateFile) (*ConvertedDocument, error)
	CoverLetter(ctx context.Context, req AnalysisRequest) (*CoverLetterResult, error)
}

// Notifier receives the transient user notifications the flows emit (the
// toast analog). Implementations must not block.
type Notifier interface {
	Success(message string)
	Error(message string)
}

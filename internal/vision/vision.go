package vision

import (
	"context"

	"github.com/masar-farm/masar/internal/domain"
)

// Analyzer runs a single multimodal inference call: one prompt plus the
// normalized images, returning the model's diagnostic narrative. It
// never retries; the rating feedback loop owns re-analysis.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string, images []domain.InlineImage) (string, error)
}

// FallbackAnalysis is returned when the model answered successfully but
// no text could be extracted from its response body. A successful call
// with an unparseable body must stay distinguishable from a failure.
const FallbackAnalysis = "لم يتم الحصول على نص من النموذج. حاول مجددًا لاحقًا."

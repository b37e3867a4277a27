package out

import (
	"context"

	sessiondto "forge/internal/modules/session/dto"
)

// HistorySource reads the counted session history. The session usecase
// satisfies it directly.
type HistorySource interface {
	History(ctx context.Context) []sessiondto.RecordOutput
}

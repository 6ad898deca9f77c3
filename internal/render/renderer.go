package render

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/bob-el-bot/arcade-bot/pkg/gamedto"
)

// ErrMessageGone signals that the match message was deleted before an edit
// landed. Expected under the timeout-vs-win race; callers swallow it.
var ErrMessageGone = errors.New("rendered message no longer exists")

// Renderer is the outbound render collaborator. RenderPrompt and RenderBoard
// return the handle of the message they created or edited; subsequent calls
// pass that handle back through the view's MessageRef.
type Renderer interface {
	RenderPrompt(ctx context.Context, v gamedto.PromptView) (string, error)
	RenderBoard(ctx context.Context, v gamedto.BoardView) (string, error)
	RenderSummary(ctx context.Context, v gamedto.SummaryView) error
}

// IgnoreGone swallows the message-gone race, logging it instead of
// propagating. Any other error passes through.
func IgnoreGone(log *zap.Logger, event string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrMessageGone) {
		if log != nil {
			log.Warn(event, zap.Error(err))
		}
		return nil
	}
	return err
}

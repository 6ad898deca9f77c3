package render

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bob-el-bot/arcade-bot/pkg/gamedto"
)

// SendFunc delivers rendered text to the chat platform. An empty ref creates
// a new message; a non-empty ref edits the existing one. The returned ref
// identifies the message for later edits.
type SendFunc func(ctx context.Context, ref, text string) (string, error)

// TextRenderer flattens views into plain text blocks and delegates delivery
// to a SendFunc. With a nil SendFunc it logs the output instead, which is
// the dry-run mode used by the wiring binary.
type TextRenderer struct {
	send SendFunc
	log  *zap.Logger
}

func NewTextRenderer(send SendFunc, log *zap.Logger) *TextRenderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &TextRenderer{send: send, log: log}
}

func (r *TextRenderer) RenderPrompt(ctx context.Context, v gamedto.PromptView) (string, error) {
	var b strings.Builder
	b.WriteString(v.Text)
	writeControls(&b, v.Controls)
	return r.deliver(ctx, v.MessageRef, b.String())
}

func (r *TextRenderer) RenderBoard(ctx context.Context, v gamedto.BoardView) (string, error) {
	var b strings.Builder
	b.WriteString(v.Title)
	for _, line := range v.Lines {
		b.WriteString("\n")
		b.WriteString(line)
	}
	if v.StatusLine != "" {
		b.WriteString("\n")
		b.WriteString(v.StatusLine)
	}
	writeControls(&b, v.Controls)
	return r.deliver(ctx, v.MessageRef, b.String())
}

func (r *TextRenderer) RenderSummary(ctx context.Context, v gamedto.SummaryView) error {
	var b strings.Builder
	b.WriteString(v.Title)
	for _, line := range v.Lines {
		b.WriteString("\n")
		b.WriteString(line)
	}
	writeControls(&b, v.Controls)
	_, err := r.deliver(ctx, v.MessageRef, b.String())
	return err
}

func (r *TextRenderer) deliver(ctx context.Context, ref, text string) (string, error) {
	if r.send == nil {
		if ref == "" {
			ref = uuid.NewString()
		}
		r.log.Info("render_dryrun", zap.String("message_ref", ref), zap.String("text", text))
		return ref, nil
	}
	return r.send(ctx, ref, text)
}

func writeControls(b *strings.Builder, controls []gamedto.Control) {
	if len(controls) == 0 {
		return
	}
	b.WriteString("\n")
	for i, c := range controls {
		if i > 0 {
			b.WriteString(" ")
		}
		if c.Disabled {
			b.WriteString("(" + c.Label + ")")
		} else {
			b.WriteString("[" + c.Label + "]")
		}
	}
}

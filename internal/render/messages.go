package render

import (
	"fmt"
	"time"

	"github.com/bob-el-bot/arcade-bot/internal/msgcat"
)

// Messages renders the user-facing text lines shared by the coordinator and
// the engines from the message catalog. Template failures fall back to a
// plain rendering so a broken override file never blocks a match.
type Messages struct {
	cat *msgcat.Catalog
}

func NewMessages(cat *msgcat.Catalog) *Messages { return &Messages{cat: cat} }

func (m *Messages) render(key string, data map[string]any, fallback string) string {
	if m == nil || m.cat == nil {
		return fallback
	}
	out, err := m.cat.Render(key, data)
	if err != nil {
		return fallback
	}
	return out
}

func deadline(t time.Time) string { return t.UTC().Format("15:04:05") }

func (m *Messages) ChallengePrompt(challenger, target, title string, expires time.Time) string {
	return m.render("challenge.prompt",
		map[string]any{"Challenger": challenger, "Target": target, "Title": title, "Deadline": deadline(expires)},
		fmt.Sprintf("%s challenges %s to %s", challenger, target, title))
}

func (m *Messages) ChallengeExpired(challenger, target, title string) string {
	return m.render("challenge.expired",
		map[string]any{"Challenger": challenger, "Target": target, "Title": title},
		fmt.Sprintf("%s did not respond to %s's challenge", target, challenger))
}

func (m *Messages) ChallengeDeclined(challenger, target, title string) string {
	return m.render("challenge.declined",
		map[string]any{"Challenger": challenger, "Target": target, "Title": title},
		fmt.Sprintf("%s declined %s's challenge", target, challenger))
}

func (m *Messages) Opening(challenger, target, title, turn string) string {
	return m.render("match.opening",
		map[string]any{"Challenger": challenger, "Target": target, "Title": title, "Turn": turn},
		fmt.Sprintf("%s vs %s: %s goes first", challenger, target, turn))
}

func (m *Messages) TurnLine(turn string, expires time.Time) string {
	return m.render("match.turn",
		map[string]any{"Turn": turn, "Deadline": deadline(expires)},
		fmt.Sprintf("%s's turn", turn))
}

func (m *Messages) WinTitle(winner, loser, title string) string {
	return m.render("match.win",
		map[string]any{"Winner": winner, "Loser": loser, "Title": title},
		fmt.Sprintf("%s wins against %s", winner, loser))
}

func (m *Messages) DrawTitle(player1, player2, title string) string {
	return m.render("match.draw",
		map[string]any{"Player1": player1, "Player2": player2, "Title": title},
		fmt.Sprintf("%s drew %s", player1, player2))
}

func (m *Messages) SoloDone(player string, points, total int, title string) string {
	return m.render("match.solo_done",
		map[string]any{"Player": player, "Points": points, "Total": total, "Title": title},
		fmt.Sprintf("%s got %d/%d", player, points, total))
}

func (m *Messages) TriviaRound(round, total int) string {
	return m.render("trivia.round",
		map[string]any{"Round": round, "Total": total},
		fmt.Sprintf("Question %d/%d", round, total))
}

func (m *Messages) TriviaMeta(category, difficulty string) string {
	return m.render("trivia.meta",
		map[string]any{"Category": category, "Difficulty": difficulty},
		fmt.Sprintf("Category: %s · Difficulty: %s", category, difficulty))
}

func (m *Messages) TriviaFooter() string {
	return m.render("trivia.footer", nil, "Powered by Open Trivia Database (unaffiliated).")
}

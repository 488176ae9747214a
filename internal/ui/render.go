package ui

import (
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/teawcommunity/teawatch/internal/api"
	"github.com/teawcommunity/teawatch/internal/feed"
	"github.com/teawcommunity/teawatch/internal/ui/feedview"
)

// Badge labels and colors per message kind. Chat badges get their color from
// the sender's UUID instead, standing in for the avatar the website shows.
var kindBadges = map[string]struct {
	label string
	color lipgloss.Color
}{
	"discord":     {"DISC", lipgloss.Color("63")},
	"join":        {"JOIN", lipgloss.Color("28")},
	"quit":        {"QUIT", lipgloss.Color("240")},
	"advancement": {"ADVN", lipgloss.Color("136")},
	"death":       {"DEAD", lipgloss.Color("88")},
	"status":      {"SRVR", lipgloss.Color("24")},
}

// avatarPalette are the backgrounds a chat sender's badge can hash to.
var avatarPalette = []lipgloss.Color{
	"25", "29", "58", "60", "89", "94", "96", "126", "130", "160",
}

func kindBadge(m api.ChatMessage) string {
	if b, ok := kindBadges[m.Type]; ok {
		return KindBadge.Background(b.color).Render(b.label)
	}
	return KindBadge.Background(avatarColor(m.SenderUUID)).Render("CHAT")
}

func avatarColor(uuid string) lipgloss.Color {
	h := fnv.New32a()
	h.Write([]byte(uuid))
	return avatarPalette[h.Sum32()%uint32(len(avatarPalette))]
}

var killBadge = KindBadge.Background(lipgloss.Color("88")).Render("⚔")

func highlight(text, term string) string {
	return feed.Highlight(text, term, func(s string) string { return SearchMatch.Render(s) })
}

func boldWord(s string) string { return BoldWord.Render(s) }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var leadingWordRe = regexp.MustCompile(`^\w+`)

// boldMessage emphasizes the actor of system messages: the leading word for
// joins, quits, deaths and server notices, plus the bracketed advancement
// name for advancements. Player chat passes through untouched.
func boldMessage(msg, kind string) string {
	switch kind {
	case "join", "quit", "death", "status":
		return leadingWordRe.ReplaceAllStringFunc(msg, boldWord)
	case "advancement":
		out := leadingWordRe.ReplaceAllStringFunc(msg, boldWord)
		if i := strings.Index(out, "["); i >= 0 {
			if j := strings.LastIndex(out, "]"); j > i {
				out = out[:i] + BoldWord.Render(out[i:j+1]) + out[j+1:]
			}
		}
		return out
	}
	return msg
}

// alignRight pads left so right lands on the last column.
func alignRight(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func renderChatRow(m api.ChatMessage, ctx feedview.Context) string {
	system := m.Type != "chat" && m.Type != "discord"
	sender := m.Sender
	if system {
		sender = capitalize(m.Type)
	}

	var left string
	if ctx.Search != "" {
		// Emphasis drops out while a search is active so the match
		// highlighting is the only markup in the row.
		left = kindBadge(m) + highlight(sender, ctx.Search) + " " + highlight(m.Message, ctx.Search)
	} else {
		style := SenderName
		body := boldMessage(m.Message, m.Type)
		if system {
			style = SystemSender
		} else {
			body = BodyText.Render(body)
		}
		left = kindBadge(m) + style.Render(sender) + " " + body
	}

	ts := Timestamp.Render(feed.FormatRelative(ctx.Now, m.Timestamp))
	return alignRight(left, ts, ctx.Width)
}

// boldNames emphasizes each name's first occurrence inside a death message.
func boldNames(msg string, names ...string) string {
	for _, n := range names {
		if n == "" {
			continue
		}
		msg = strings.Replace(msg, n, BoldWord.Render(n), 1)
	}
	return msg
}

func renderKillRow(k api.Kill, ctx feedview.Context) string {
	body := k.DeathMessage
	if ctx.Search != "" {
		body = highlight(body, ctx.Search)
	} else {
		body = boldNames(body, k.KillerName, k.VictimName)
	}
	ts := Timestamp.Render(feed.FormatRelative(ctx.Now, k.Timestamp))
	return alignRight(killBadge+body, ts, ctx.Width)
}

func statusDot(status string) string {
	switch status {
	case api.PlayerOnline:
		return LightGreen.Render("●")
	case api.PlayerAFK:
		return lipgloss.NewStyle().Foreground(colorWarning).Render("●")
	}
	return LightGray.Render("○")
}

// playerStatusText mirrors the roster card status line: online and AFK
// players show their session length, offline players the time since they
// were last seen.
func playerStatusText(p api.Player, now time.Time) string {
	switch p.Status {
	case api.PlayerOnline:
		return "Online for " + feed.FormatDurationWords(time.Duration(p.OnlineDuration)*time.Millisecond)
	case api.PlayerAFK:
		return "AFK for " + feed.FormatDurationWords(time.Duration(p.AFKDuration)*time.Millisecond)
	}
	return "Last online " + feed.FormatDurationWords(now.Sub(time.UnixMilli(p.LastOnline))) + " ago"
}

// playerRenderer builds the roster row renderer. The detail line carries the
// skin endpoint URL in place of the card's skin image.
func playerRenderer(c *api.Client) func(api.Player, feedview.Context) string {
	return func(p api.Player, ctx feedview.Context) string {
		name := p.Name
		if ctx.Search != "" {
			name = highlight(name, ctx.Search)
		} else {
			name = SenderName.Render(name)
		}
		line := alignRight(statusDot(p.Status)+" "+name, Detail.Render(playerStatusText(p, ctx.Now)), ctx.Width)

		var details []string
		if p.FirstJoined > 0 {
			details = append(details, "First joined: "+time.UnixMilli(p.FirstJoined).UTC().Format("2006-01-02"))
		}
		if p.Bio != "" {
			details = append(details, p.Bio)
		}
		details = append(details, c.PlayerSkinPath(p.UUID))
		return line + "\n" + Detail.Render("  "+strings.Join(details, "  ·  "))
	}
}

// displayName turns the server's underscore names into display names.
func displayName(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// darkenHex converts a hex6 color (no leading '#') into a terminal color,
// dimmed slightly so the pill does not overpower the row.
func darkenHex(hex string) (lipgloss.Color, bool) {
	if len(hex) != 6 {
		return "", false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return "", false
	}
	const darken = 0.9
	r := uint8(float64(v>>16&0xff) * darken)
	g := uint8(float64(v>>8&0xff) * darken)
	b := uint8(float64(v&0xff) * darken)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b)), true
}

func townPill(t api.Town) string {
	// The pill body takes the town color, falling back to the nation's.
	if c, ok := darkenHex(t.TownColor); ok {
		return lipgloss.NewStyle().Foreground(c).Render("▐▌")
	}
	if c, ok := darkenHex(t.NationColor); ok {
		return lipgloss.NewStyle().Foreground(c).Render("▐▌")
	}
	return LightGray.Render("▐▌")
}

func renderTownRow(t api.Town, ctx feedview.Context) string {
	name := displayName(t.Name)
	if ctx.Search != "" {
		name = highlight(name, ctx.Search)
	} else {
		name = SenderName.Render(name)
	}
	left := townPill(t) + " " + name
	if t.NationName != "" {
		left += Detail.Render("  Nation: " + displayName(t.NationName))
	}

	founded := ""
	if t.Founded > 0 {
		founded = Timestamp.Render("Founded " + time.UnixMilli(t.Founded).UTC().Format("2006-01-02"))
	}
	line := alignRight(left, founded, ctx.Width)

	var details []string
	if t.Mayor != "" {
		details = append(details, "Mayor: "+t.Mayor)
	}
	details = append(details, fmt.Sprintf("Spawn %d, %d, %d", t.SpawnX, t.SpawnY, t.SpawnZ))
	if !t.IsActive {
		details = append(details, "inactive")
	}
	return line + "\n" + Detail.Render("   "+strings.Join(details, "  ·  "))
}

// groupThousands inserts comma separators into a digit string.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}

func formatStatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return groupThousands(strconv.FormatInt(int64(v), 10))
	}
	intPart, frac, _ := strings.Cut(strconv.FormatFloat(v, 'f', 2, 64), ".")
	return groupThousands(intPart) + "." + frac
}

func renderStatRow(e api.StatEntry, ctx feedview.Context) string {
	name := e.Name
	if ctx.Search != "" {
		name = highlight(name, ctx.Search)
	} else {
		name = SenderName.Render(name)
	}
	rank := RankStyle.Render(fmt.Sprintf("#%-4d", e.Rank))
	value := MonoValue.Render(formatStatValue(e.Value))
	return alignRight(rank+name, value, ctx.Width)
}

// showcaseRenderer builds the photo row renderer. The image itself stays on
// the server; the row carries its URL.
func showcaseRenderer(c *api.Client) func(api.ShowcasePhoto, feedview.Context) string {
	return func(p api.ShowcasePhoto, ctx feedview.Context) string {
		title := p.PhotoTitle
		if ctx.Search != "" {
			title = highlight(title, ctx.Search)
		} else {
			title = SenderName.Render(title)
		}
		left := "▣ " + title
		if p.Photographer != "" {
			left += Detail.Render("  by " + p.Photographer)
		}
		line := alignRight(left, Timestamp.Render(p.PhotoDate), ctx.Width)
		return line + "\n" + Detail.Render("  "+c.ShowcaseImagePath(p.ImgSrc))
	}
}

// worldTimeStage maps the in-game clock to the daylight cycle stage shown in
// the chat header. Stages change rarely, unlike the raw clock.
func worldTimeStage(worldTime string) string {
	hourStr := worldTime
	if i := strings.Index(hourStr, ":"); i >= 0 {
		hourStr = hourStr[:i]
	}
	hour, err := strconv.Atoi(strings.TrimSpace(hourStr))
	if err != nil {
		return "Unknown"
	}
	switch {
	case hour >= 6 && hour < 12:
		return "Day"
	case hour >= 12 && hour < 18:
		return "Noon"
	case hour >= 18 && hour < 19:
		return "Sunset"
	case hour >= 19 || hour < 5:
		return "Night"
	case hour >= 5 && hour < 6:
		return "Sunrise"
	}
	return "Unknown"
}

package term

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vango-dev/native/pkg/vdom"
)

// Render draws n and its shown descendants into lines exactly width cells
// wide. Nodes that were never shown draw nothing.
func (tk *Toolkit) Render(n *Node, width int) []string {
	if n == nil || !n.shown {
		return nil
	}
	width = max(width, 1)
	if n.screen {
		return tk.stack(n.children, width, "")
	}
	if n.isText {
		return fitLines(strings.Split(n.value, "\n"), width)
	}

	th := tk.theme
	switch n.tag {
	case vdom.TagColumn:
		return tk.stack(n.children, width, "")
	case vdom.TagVPane:
		return tk.titled(n, width, func(w int) []string {
			return tk.stack(n.children, w, strings.Repeat(th.Border.Horizontal, w))
		})
	case vdom.TagRow:
		return tk.split(n.children, width, " ")
	case vdom.TagHPane:
		return tk.titled(n, width, func(w int) []string {
			return tk.split(n.children, w, th.Border.Vertical)
		})
	case vdom.TagBlock:
		return tk.box(n.title, width, tk.stack(n.children, max(width-2, 1), ""))
	case vdom.TagButton:
		return []string{fit(th.Button.Left+n.label+th.Button.Right, width)}
	case vdom.TagParagraph:
		return fitLines(wrap(n.value, width), width)
	case vdom.TagTextInput:
		field := width - runewidth.StringWidth(th.Input.Left+th.Input.Right)
		if n.width > 0 {
			field = min(int(n.width), field)
		}
		return []string{fit(th.Input.Left+fit(n.value, max(field, 0))+th.Input.Right, width)}
	case vdom.TagTextArea:
		inner := max(width-2, 1)
		lines := wrap(n.value, inner)
		if n.height > 0 {
			rows := int(n.height)
			for len(lines) < rows {
				lines = append(lines, "")
			}
			lines = lines[:rows]
		}
		return tk.box("", width, fitLines(lines, inner))
	case vdom.TagCheckbox:
		return []string{fit(mark(th.Checkbox, n.checked)+" "+n.label, width)}
	case vdom.TagRadio:
		return []string{fit(mark(th.Radio, n.checked)+" "+n.label, width)}
	case vdom.TagImage:
		if n.img == nil {
			return []string{fit("[image]", width)}
		}
		cols, rows := imageCells(n.img, n.width, n.height)
		return fitLines(shadeImage(n.img, min(cols, width), rows, th.Shades), width)
	case vdom.TagSvg:
		return []string{fit(fmt.Sprintf("<svg %d bytes>", len(n.data)), width)}
	}
	return nil
}

// stack draws children top to bottom, with sep between them when non-empty.
func (tk *Toolkit) stack(children []*Node, width int, sep string) []string {
	var lines []string
	drawn := 0
	for _, c := range children {
		out := tk.Render(c, width)
		if out == nil {
			continue
		}
		if drawn > 0 && sep != "" {
			lines = append(lines, fit(sep, width))
		}
		lines = append(lines, out...)
		drawn++
	}
	return lines
}

// split draws children side by side, sharing width evenly. Earlier children
// take the remainder; shorter columns are padded with blank lines.
func (tk *Toolkit) split(children []*Node, width int, sep string) []string {
	var shown []*Node
	for _, c := range children {
		if c.shown {
			shown = append(shown, c)
		}
	}
	if len(shown) == 0 {
		return nil
	}

	sepWidth := runewidth.StringWidth(sep)
	avail := width - sepWidth*(len(shown)-1)
	cols := make([][]string, len(shown))
	widths := make([]int, len(shown))
	height := 0
	for i, c := range shown {
		widths[i] = max(avail/len(shown), 1)
		if i < avail%len(shown) {
			widths[i]++
		}
		cols[i] = tk.Render(c, widths[i])
		height = max(height, len(cols[i]))
	}

	lines := make([]string, height)
	for row := range lines {
		var b strings.Builder
		for i, col := range cols {
			if i > 0 {
				b.WriteString(sep)
			}
			if row < len(col) {
				b.WriteString(col[row])
			} else {
				b.WriteString(strings.Repeat(" ", widths[i]))
			}
		}
		lines[row] = fit(b.String(), width)
	}
	return lines
}

// titled boxes a pane when it has a title.
func (tk *Toolkit) titled(n *Node, width int, body func(width int) []string) []string {
	if n.title == "" {
		return body(width)
	}
	return tk.box(n.title, width, body(max(width-2, 1)))
}

func (tk *Toolkit) box(title string, width int, body []string) []string {
	bt := tk.theme.Border
	inner := max(width-2, 1)

	top := bt.TopLeft + fit(title+strings.Repeat(bt.Horizontal, inner), inner) + bt.TopRight
	lines := []string{fit(top, width)}
	for _, l := range body {
		lines = append(lines, fit(bt.Vertical+fit(l, inner)+bt.Vertical, width))
	}
	bottom := bt.BottomLeft + strings.Repeat(bt.Horizontal, inner) + bt.BottomRight
	return append(lines, fit(bottom, width))
}

func mark(m MarkTheme, on bool) string {
	if on {
		return m.On
	}
	return m.Off
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}

func fitLines(lines []string, width int) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = fit(l, width)
	}
	return out
}

// wrap breaks s into lines of at most width cells, splitting on spaces and
// hard-breaking words that do not fit.
func wrap(s string, width int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		start := len(lines)
		line, lineWidth := "", 0
		for _, word := range strings.Fields(para) {
			ww := runewidth.StringWidth(word)
			for ww > width {
				if line != "" {
					lines = append(lines, line)
					line, lineWidth = "", 0
				}
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					head = string([]rune(word)[:1])
				}
				lines = append(lines, head)
				word = word[len(head):]
				ww = runewidth.StringWidth(word)
			}
			if word == "" {
				continue
			}
			switch {
			case line == "":
				line, lineWidth = word, ww
			case lineWidth+1+ww <= width:
				line += " " + word
				lineWidth += 1 + ww
			default:
				lines = append(lines, line)
				line, lineWidth = word, ww
			}
		}
		if line != "" || len(lines) == start {
			lines = append(lines, line)
		}
	}
	return lines
}

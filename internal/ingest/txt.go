package ingest

import (
	"errors"
	"regexp"
	"strings"

	"github.com/inkweave/inkgraph/internal/model"
)

// ErrEmpty marks an upload with no usable text.
var ErrEmpty = errors.New("empty novel text")

var chapterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^第[零一二三四五六七八九十百千万\d]+章`),
	regexp.MustCompile(`^第[零一二三四五六七八九十百千万\d]+回`),
	regexp.MustCompile(`^Chapter\s+\d+`),
	regexp.MustCompile(`^\d+\.`),
	regexp.MustCompile(`^\d+、`),
}

var (
	titleRe  = regexp.MustCompile(`^书名[：:]\s*(.+)$`)
	authorRe = regexp.MustCompile(`^作者[：:]\s*(.+)$`)
)

// Parse splits raw text into chapters on heading patterns (第X章, 第X回,
// Chapter N, N., N、). Text without recognizable headings becomes a single
// chapter. Title and author fall back to values sniffed from the first lines.
func Parse(id, title, author, text string) (*model.Novel, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmpty
	}

	sniffedTitle, sniffedAuthor := sniffMetadata(text)
	if title == "" {
		title = sniffedTitle
	}
	if author == "" {
		author = sniffedAuthor
	}

	var chapters []model.Chapter
	var current *model.Chapter
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.Join(body, "\n")
		current.WordCount = len([]rune(current.Text))
		chapters = append(chapters, *current)
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isChapterHeading(line) {
			flush()
			current = &model.Chapter{
				Index: len(chapters) + 1,
				Title: line,
			}
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	if len(chapters) == 0 {
		chapters = append(chapters, model.Chapter{
			Index:     1,
			Title:     "全文",
			Text:      strings.TrimSpace(text),
			WordCount: len([]rune(strings.TrimSpace(text))),
		})
	}

	return &model.Novel{
		ID:       id,
		Title:    title,
		Author:   author,
		Chapters: chapters,
	}, nil
}

func isChapterHeading(line string) bool {
	for _, re := range chapterPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func sniffMetadata(text string) (title, author string) {
	lines := strings.Split(text, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if m := titleRe.FindStringSubmatch(line); m != nil && title == "" {
			title = strings.TrimSpace(m[1])
		}
		if m := authorRe.FindStringSubmatch(line); m != nil && author == "" {
			author = strings.TrimSpace(m[1])
		}
	}
	return title, author
}

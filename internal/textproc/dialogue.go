package textproc

import "regexp"

// Dialogue is one quoted utterance with its attributed speaker. Speaker is
// "未知" when no attribution pattern precedes the quote.
type Dialogue struct {
	Speaker  string
	Content  string
	Position int
}

var speakerRe = regexp.MustCompile(`([^，。！？；：\s""''“”‘’「」]{2,4}?)(说|道|问|答|笑|叹|喊)[道了]?[，：:]?$`)

var quotePairs = map[rune]rune{
	'"':      '"',
	'“': '”', // 中文双引号
	'‘': '’', // 中文单引号
	'「':      '」',
}

var sentenceEnd = map[rune]bool{
	'。': true, '！': true, '？': true, '!': true, '?': true, '\n': true,
}

// ExtractDialogues finds quoted spans and attributes each to the nearest
// preceding "X说/道/…" pattern. Matching is tolerant: a quote that never
// closes ends at the next sentence terminator (or end of text), so
// mis-escaped quote noise cannot swallow the rest of the chapter.
func ExtractDialogues(text string) []Dialogue {
	runes := []rune(text)
	var dialogues []Dialogue

	for i := 0; i < len(runes); i++ {
		closer, ok := quotePairs[runes[i]]
		if !ok {
			continue
		}
		end := -1
		softEnd := -1
		for j := i + 1; j < len(runes); j++ {
			if runes[j] == closer {
				end = j
				break
			}
			if softEnd == -1 && sentenceEnd[runes[j]] {
				softEnd = j
			}
			if _, opens := quotePairs[runes[j]]; opens && runes[j] != closer {
				break
			}
		}
		if end == -1 {
			end = softEnd
			if end == -1 {
				end = len(runes)
			}
		}
		content := string(runes[i+1 : end])
		if content == "" {
			i = end
			continue
		}

		speaker := "未知"
		ctxStart := i - 20
		if ctxStart < 0 {
			ctxStart = 0
		}
		if m := speakerRe.FindStringSubmatch(string(runes[ctxStart:i])); m != nil {
			speaker = m[1]
		}

		dialogues = append(dialogues, Dialogue{
			Speaker:  speaker,
			Content:  content,
			Position: i,
		})
		i = end
	}

	return dialogues
}

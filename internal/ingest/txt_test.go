package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSplitsChapters(t *testing.T) {
	text := "第一章 初遇\n张三来了。\n李四走了。\n第二章 再会\n他们又见面了。"

	novel, err := Parse("n1", "测试", "", text)
	require.NoError(t, err)

	require.Len(t, novel.Chapters, 2)
	assert.Equal(t, 1, novel.Chapters[0].Index)
	assert.Equal(t, "第一章 初遇", novel.Chapters[0].Title)
	assert.Contains(t, novel.Chapters[0].Text, "张三来了")
	assert.Equal(t, 2, novel.Chapters[1].Index)
	assert.Equal(t, "测试", novel.Title)
	assert.Positive(t, novel.Chapters[0].WordCount)
}

func TestParseHuiHeadings(t *testing.T) {
	novel, err := Parse("n1", "", "", "第一回 开端\n正文。\n第二回 继续\n正文。")
	require.NoError(t, err)
	assert.Len(t, novel.Chapters, 2)
}

func TestParseFallbackSingleChapter(t *testing.T) {
	novel, err := Parse("n1", "", "", "没有任何章节标记的文本。")
	require.NoError(t, err)

	require.Len(t, novel.Chapters, 1)
	assert.Equal(t, 1, novel.Chapters[0].Index)
	assert.Equal(t, "全文", novel.Chapters[0].Title)
}

func TestParseSniffsMetadata(t *testing.T) {
	text := "书名：测试小说\n作者：佚名\n第一章 开始\n内容。"

	novel, err := Parse("n1", "", "", text)
	require.NoError(t, err)
	assert.Equal(t, "测试小说", novel.Title)
	assert.Equal(t, "佚名", novel.Author)
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse("n1", "", "", "   \n  ")
	assert.ErrorIs(t, err, ErrEmpty)
}

package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPunctuation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "whitespace only",
			text: " \t\n　",
			want: nil,
		},
		{
			name: "no punctuation",
			text: "青马大桥",
			want: []string{"青马大桥"},
		},
		{
			name: "full stops",
			text: "登鸕鷀樓。王之渙。白日依山盡。",
			want: []string{"登鸕鷀樓。", "王之渙。", "白日依山盡。"},
		},
		{
			name: "question mark",
			text: "你好吗？我很好。",
			want: []string{"你好吗？", "我很好。"},
		},
		{
			name: "semicolon",
			text: "春天来了；鲜花盛开。",
			want: []string{"春天来了；", "鲜花盛开。"},
		},
		{
			name: "colon",
			text: "请注意：这很重要。",
			want: []string{"请注意：", "这很重要。"},
		},
		{
			name: "comma splits but ideographic comma does not",
			text: "红、黄、蓝，三种颜色。",
			want: []string{"红、黄、蓝，", "三种颜色。"},
		},
		{
			name: "exclamation mark does not split",
			text: "好极了！再来一次。",
			want: []string{"好极了！再来一次。"},
		},
		{
			name: "trailing text without mark",
			text: "第一句。第二句",
			want: []string{"第一句。", "第二句"},
		},
		{
			name: "consecutive marks",
			text: "你好。。",
			want: []string{"你好。", "。"},
		},
		{
			name: "pieces are trimmed",
			text: "  第一句。 \n 第二句。  ",
			want: []string{"第一句。", "第二句。"},
		},
		{
			name: "inner whitespace survives",
			text: "春天 来了；",
			want: []string{"春天 来了；"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPunctuation(tt.text))
		})
	}
}

func TestStripTrailingMark(t *testing.T) {
	tests := []struct {
		in       string
		wantBody string
		wantMark string
	}{
		{in: "我很高兴。", wantBody: "我很高兴", wantMark: "。"},
		{in: "真的吗？", wantBody: "真的吗", wantMark: "？"},
		{in: "好极了！", wantBody: "好极了！", wantMark: ""},
		{in: "没有标点", wantBody: "没有标点", wantMark: ""},
		{in: "两个。。", wantBody: "两个。", wantMark: "。"},
		{in: "", wantBody: "", wantMark: ""},
	}

	for _, tt := range tests {
		body, mark := stripTrailingMark(tt.in)
		assert.Equal(t, tt.wantBody, body, "body of %q", tt.in)
		assert.Equal(t, tt.wantMark, mark, "mark of %q", tt.in)
	}
}

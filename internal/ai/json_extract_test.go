package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONBlockFromProse(t *testing.T) {
	// LLM常把JSON夹在说明文字中间
	raw := `Here you go: {"name":"A"} thanks`

	block, err := ExtractJSONBlock(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"A"}`, block)

	var parsed map[string]string
	require.NoError(t, json.Unmarshal([]byte(block), &parsed))
	assert.Equal(t, "A", parsed["name"])
}

func TestExtractJSONBlockFromFence(t *testing.T) {
	raw := "好的，结果如下：\n```json\n{\"skills\": [\"Go\", \"Python\"]}\n```\n如有需要可以继续。"

	block, err := ExtractJSONBlock(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"skills":["Go","Python"]}`, block)
}

func TestExtractJSONBlockArray(t *testing.T) {
	raw := `推荐资源列表: [{"skill":"Go","title":"官方教程"}] 以上。`

	block, err := ExtractJSONBlock(raw)
	require.NoError(t, err)

	var parsed []map[string]string
	require.NoError(t, json.Unmarshal([]byte(block), &parsed))
	require.Len(t, parsed, 1)
	assert.Equal(t, "Go", parsed[0]["skill"])
}

func TestExtractJSONBlockNestedBraces(t *testing.T) {
	raw := `结果 {"outer":{"inner":[1,2,3]},"note":"含}括号的\"字符串\""} 结束`

	block, err := ExtractJSONBlock(raw)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(block)), "提取的块应是合法JSON: %s", block)
}

func TestExtractJSONBlockNoJSON(t *testing.T) {
	_, err := ExtractJSONBlock("抱歉，我无法完成这个任务。")
	assert.ErrorIs(t, err, ErrNoJSONInResponse)

	_, err = ExtractJSONBlock("")
	assert.ErrorIs(t, err, ErrNoJSONInResponse)
}

func TestExtractJSONBlockEarliestBlockWins(t *testing.T) {
	block, err := ExtractJSONBlock(`{"a":1} and also [2,3]`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, block)

	block, err = ExtractJSONBlock(`[2,3] and also {"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, `[2,3]`, block)
}

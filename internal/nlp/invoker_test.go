package nlp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"resume-intel-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript 写入一个伪装成Python脚本的shell脚本，
// 配合pythonBin=/bin/sh即可在无Python环境下测试调用器。
func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
}

func testInvoker(t *testing.T, scriptDir string) *Invoker {
	t.Helper()
	return NewInvoker(config.NLPWorkerConfig{
		PythonBin:              "/bin/sh",
		ScriptDir:              scriptDir,
		NERTimeoutSeconds:      5,
		EmbedTimeoutSeconds:    5,
		ClassifyTimeoutSeconds: 5,
		SpoolThresholdBytes:    6000,
		TempDir:                t.TempDir(),
	})
}

func TestRunNERSuccess(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "ner_worker.py",
		`echo '{"entities":[{"word":"Python","entity_group":"MISC","score":0.91}]}'`)

	inv := testInvoker(t, dir)
	entities, err := inv.RunNER(context.Background(), "proficient in Python")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "Python", entities[0].Word)
	assert.Equal(t, "MISC", entities[0].EntityGroup)
	assert.InDelta(t, 0.91, entities[0].Score, 0.001)
}

func TestRunNERTimeout(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "ner_worker.py", `sleep 10`)

	inv := testInvoker(t, dir)
	inv.nerTimeout = 300 * time.Millisecond

	start := time.Now()
	_, err := inv.RunNER(context.Background(), "text")
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrWorkerTimeout)
	assert.Less(t, elapsed, 3*time.Second, "超时后应立即终止子进程")
}

func TestRunNERTimeoutKillsProcessTree(t *testing.T) {
	dir := t.TempDir()
	// 脚本派生一个继承stdout管道的后台子进程再自己睡眠，
	// 只杀直接子进程的话孤儿会拖住管道读取
	writeScript(t, dir, "ner_worker.py", `sleep 10 &
sleep 10`)

	inv := testInvoker(t, dir)
	inv.nerTimeout = 300 * time.Millisecond

	start := time.Now()
	_, err := inv.RunNER(context.Background(), "text")
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrWorkerTimeout)
	assert.Less(t, elapsed, 3*time.Second, "整个进程组都应被终止，不等孤儿进程退出")
}

func TestRunNERProcessFailure(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "ner_worker.py", `echo "model not found" >&2; exit 2`)

	inv := testInvoker(t, dir)
	_, err := inv.RunNER(context.Background(), "text")
	assert.ErrorIs(t, err, ErrWorkerFailed)
}

func TestRunNERBadOutput(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "ner_worker.py", `echo 'Traceback: something broke'`)

	inv := testInvoker(t, dir)
	_, err := inv.RunNER(context.Background(), "text")
	assert.ErrorIs(t, err, ErrBadWorkerOutput)
}

func TestRunNERSpoolsLargeInput(t *testing.T) {
	dir := t.TempDir()
	// 大输入应通过--input-file传递；脚本回显收到的字节数
	writeScript(t, dir, "ner_worker.py", `
if [ "$1" = "--input-file" ]; then
  n=$(wc -c < "$2")
  echo "{\"entities\":[{\"word\":\"bytes:$n\",\"entity_group\":\"MISC\",\"score\":0.9}]}"
else
  echo '{"entities":[]}'
fi`)

	tempDir := t.TempDir()
	inv := testInvoker(t, dir)
	inv.tempDir = tempDir

	largeText := strings.Repeat("a", 7000)
	entities, err := inv.RunNER(context.Background(), largeText)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "bytes:7000", entities[0].Word)

	// 临时文件应已清理
	remaining, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestRunEmbed(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "embed_worker.py", `echo '{"embedding":[0.1,0.2,0.3]}'`)

	inv := testInvoker(t, dir)
	vec, err := inv.RunEmbed(context.Background(), "some text")
	require.NoError(t, err)
	assert.Len(t, vec, 3)
	assert.InDelta(t, 0.2, vec[1], 0.001)
}

func TestRunEmbedEmptyVector(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "embed_worker.py", `echo '{"embedding":[]}'`)

	inv := testInvoker(t, dir)
	_, err := inv.RunEmbed(context.Background(), "some text")
	assert.ErrorIs(t, err, ErrBadWorkerOutput)
}

func TestRunClassify(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "classify_worker.py",
		`echo '{"labels":["backend","frontend"],"scores":[0.8,0.2]}'`)

	inv := testInvoker(t, dir)
	scores, err := inv.RunClassify(context.Background(), "Go developer", []string{"backend", "frontend"})
	require.NoError(t, err)
	assert.InDelta(t, 0.8, scores["backend"], 0.001)
	assert.InDelta(t, 0.2, scores["frontend"], 0.001)
}

func TestRunClassifyMismatchedOutput(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "classify_worker.py",
		`echo '{"labels":["backend"],"scores":[0.8,0.2]}'`)

	inv := testInvoker(t, dir)
	_, err := inv.RunClassify(context.Background(), "text", []string{"backend"})
	assert.ErrorIs(t, err, ErrBadWorkerOutput)
}

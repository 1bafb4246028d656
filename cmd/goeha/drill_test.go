package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"goeha/internal/domain"
	"goeha/internal/drill"
	"goeha/internal/service"
	"goeha/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDrillService(words []domain.Word) *service.DrillService {
	repo := new(testutil.MockWordRepository)
	repo.On("ReadAll", mock.Anything, mock.Anything).Return(words, nil)

	logger := testutil.NewTestLogger()
	return service.NewDrillService(service.NewWordService(repo, logger), drill.MatchAnyFragment, drill.RequeueAppend, nil, logger)
}

func TestRunTerminalDrill(t *testing.T) {
	words := []domain.Word{testutil.NewTestWord(1, "apple", "사과,애플")}
	var out bytes.Buffer

	err := runTerminalDrill(context.Background(), newDrillService(words), false, strings.NewReader("\n배\n애플\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, "1 words, answer with the Korean meaning\napple? "+
		"type an answer\napple? "+
		"wrong, apple = 사과,애플\napple? "+
		"correct  1/1\n"+
		"done, 1 words with 1 mistakes\n", out.String())
}

func TestRunTerminalDrill_InputEnds(t *testing.T) {
	words := testutil.SampleWords()
	var out bytes.Buffer

	err := runTerminalDrill(context.Background(), newDrillService(words), false, strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "3 words")
}

func TestRunTerminalDrill_NothingToDrill(t *testing.T) {
	var out bytes.Buffer

	err := runTerminalDrill(context.Background(), newDrillService([]domain.Word{}), true, strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Equal(t, "nothing to drill\n", out.String())
}

func TestParseIDArg(t *testing.T) {
	id, err := parseIDArg("12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, bad := range []string{"", "0", "-3", "abc"} {
		_, err := parseIDArg(bad)
		assert.Error(t, err, bad)
	}
}

func TestPrintWords(t *testing.T) {
	words := testutil.SampleWords()
	words[0].Hardness = domain.HardnessHard
	words[0].Example = "An apple a day."
	var out bytes.Buffer

	printWords(&out, words[:2])

	assert.Equal(t, "   1  apple: 사과 [hard]\n      An apple a day.\n   2  book: 책\n", out.String())
}

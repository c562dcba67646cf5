package inference_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/textgen/internal/inference"
)

type countingGenerator struct {
	mutex     sync.Mutex
	calls     map[string]int
	failTexts map[string]error
}

func newCountingGenerator() *countingGenerator {
	return &countingGenerator{calls: map[string]int{}, failTexts: map[string]error{}}
}

func (generator *countingGenerator) Generate(_ context.Context, text string) (string, error) {
	generator.mutex.Lock()
	defer generator.mutex.Unlock()
	generator.calls[text]++
	if failure, shouldFail := generator.failTexts[text]; shouldFail {
		return "", failure
	}
	return "generated:" + text, nil
}

func (generator *countingGenerator) callCount(text string) int {
	generator.mutex.Lock()
	defer generator.mutex.Unlock()
	return generator.calls[text]
}

func TestCachingGeneratorServesRepeatedInputsFromCache(testInstance *testing.T) {
	delegate := newCountingGenerator()
	generator := inference.NewCachingGenerator(delegate, time.Minute, 16, nil)
	defer generator.Close()

	for iteration := 0; iteration < 3; iteration++ {
		output, generateError := generator.Generate(context.Background(), "hello")
		require.NoError(testInstance, generateError)
		require.Equal(testInstance, "generated:hello", output)
	}
	require.Equal(testInstance, 1, delegate.callCount("hello"))

	_, otherError := generator.Generate(context.Background(), "other")
	require.NoError(testInstance, otherError)
	require.Equal(testInstance, 1, delegate.callCount("other"))
}

func TestCachingGeneratorDoesNotCacheFailures(testInstance *testing.T) {
	delegate := newCountingGenerator()
	delegate.failTexts["broken"] = errors.New("backend down")
	generator := inference.NewCachingGenerator(delegate, time.Minute, 0, nil)
	defer generator.Close()

	for iteration := 0; iteration < 2; iteration++ {
		_, generateError := generator.Generate(context.Background(), "broken")
		require.EqualError(testInstance, generateError, "backend down")
	}
	require.Equal(testInstance, 2, delegate.callCount("broken"))
}

func TestCachingGeneratorDisabledWithZeroTTL(testInstance *testing.T) {
	delegate := newCountingGenerator()
	generator := inference.NewCachingGenerator(delegate, 0, 16, nil)
	defer generator.Close()

	for iteration := 0; iteration < 2; iteration++ {
		_, generateError := generator.Generate(context.Background(), "hello")
		require.NoError(testInstance, generateError)
	}
	require.Equal(testInstance, 2, delegate.callCount("hello"))
}

func TestCachingGeneratorExpiresEntries(testInstance *testing.T) {
	delegate := newCountingGenerator()
	generator := inference.NewCachingGenerator(delegate, 20*time.Millisecond, 0, nil)
	defer generator.Close()

	_, firstError := generator.Generate(context.Background(), "hello")
	require.NoError(testInstance, firstError)
	time.Sleep(60 * time.Millisecond)
	_, secondError := generator.Generate(context.Background(), "hello")
	require.NoError(testInstance, secondError)
	require.Equal(testInstance, 2, delegate.callCount("hello"))
}

package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/domain"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/inference"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/service"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	calls int
	err   error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return (&inference.Placeholder{Width: 8, Height: 8}).Generate(ctx, prompt)
}

type failingStore struct{}

func (failingStore) Save(context.Context, []byte) (domain.StoredImage, error) {
	return domain.StoredImage{}, errors.New("no space left on device")
}

var urlPattern = regexp.MustCompile(`^http://127\.0\.0\.1:8000/generated/[0-9a-f-]{36}\.png$`)

func newService(t *testing.T, gen inference.Generator) (*service.GenerationService, string) {
	t.Helper()
	dir := t.TempDir()
	return service.NewGenerationService(gen, storage.NewFileStore(dir), "http://127.0.0.1:8000"), dir
}

func TestGenerationService_Generate(t *testing.T) {
	gen := &stubGenerator{}
	svc, dir := newService(t, gen)

	res, err := svc.Generate(context.Background(), domain.GenerationRequest{Prompt: "a cat"})
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.Regexp(t, urlPattern, res.ImageURL)
	assert.Greater(t, res.ImageSize, int64(0))
	assert.False(t, res.GeneratedAt.IsZero())
	assert.GreaterOrEqual(t, res.GenerationTime.Nanoseconds(), int64(0))

	info, err := os.Stat(filepath.Join(dir, res.FileName))
	require.NoError(t, err)
	assert.Equal(t, info.Size(), res.ImageSize)
}

func TestGenerationService_EmptyPrompt(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\n\t"} {
		gen := &stubGenerator{}
		svc, dir := newService(t, gen)

		res, err := svc.Generate(context.Background(), domain.GenerationRequest{Prompt: prompt})
		assert.Nil(t, res)
		assert.ErrorIs(t, err, domain.ErrEmptyPrompt)
		assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
		assert.Zero(t, gen.calls, "inference must not run for %q", prompt)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
}

func TestGenerationService_InferenceFailure(t *testing.T) {
	cause := errors.New("CUDA out of memory")
	svc, dir := newService(t, &stubGenerator{err: cause})

	_, err := svc.Generate(context.Background(), domain.GenerationRequest{Prompt: "a cat"})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))

	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "inference", genErr.Op)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerationService_StoreFailure(t *testing.T) {
	svc := service.NewGenerationService(&stubGenerator{}, failingStore{}, "http://127.0.0.1:8000")

	_, err := svc.Generate(context.Background(), domain.GenerationRequest{Prompt: "a cat"})

	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "store", genErr.Op)
}

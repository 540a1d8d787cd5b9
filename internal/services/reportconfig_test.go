package services

import (
	"context"
	"testing"

	"github.com/salesdesk/apiserver/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConfigRepo struct {
	link string
}

func (f *fakeConfigRepo) Get(context.Context) (string, error) {
	if f.link == "" {
		return "", store.ErrNotFound
	}
	return f.link, nil
}

func (f *fakeConfigRepo) Replace(_ context.Context, link string) error {
	f.link = link
	return nil
}

func TestGetURL_FallsBackWhenUnset(t *testing.T) {
	svc := NewReportConfigService(&fakeConfigRepo{})

	url, err := svc.GetURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultEmbedURL, url)
}

func TestSetURL_ThenGetRoundTrips(t *testing.T) {
	repo := &fakeConfigRepo{}
	svc := NewReportConfigService(repo)

	const link = "https://reports.example.com/d/42"
	require.NoError(t, svc.SetURL(context.Background(), link))
	// Setting twice must still leave exactly one value.
	require.NoError(t, svc.SetURL(context.Background(), link))

	url, err := svc.GetURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, link, url)
}

func TestSetURL_RejectsBlankInput(t *testing.T) {
	repo := &fakeConfigRepo{link: "https://keep.example.com"}
	svc := NewReportConfigService(repo)

	for _, input := range []string{"", "   ", "\t\n"} {
		err := svc.SetURL(context.Background(), input)
		assert.ErrorIs(t, err, ErrValidation, "input %q", input)
	}
	assert.Equal(t, "https://keep.example.com", repo.link, "rejected input must not mutate the store")
}

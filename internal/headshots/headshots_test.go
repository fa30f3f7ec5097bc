package headshots

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLocalOnly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "headshots")
	mirror, err := NewMirror(context.Background(), Options{Dir: dir})
	require.NoError(t, err)

	image := []byte{0xff, 0xd8, 0xff, 0xe0}
	srcUrl := "https://clerk.house.gov/content/assets/img/members/V000081.jpg?v=2"

	got, err := mirror.Save(context.Background(), "V000081", srcUrl, image)
	require.NoError(t, err)
	// without a bucket the roster keeps pointing at the source
	require.Equal(t, srcUrl, got)

	stored, err := os.ReadFile(filepath.Join(dir, "V000081.jpg"))
	require.NoError(t, err)
	require.Equal(t, image, stored)
}

func TestImageName(t *testing.T) {
	require.Equal(t, "A000001.png", imageName("A000001", "https://example.com/img/a.png"))
	require.Equal(t, "A000001.jpg", imageName("A000001", "https://example.com/headshot"))
	require.Equal(t, "A000001.jpg", imageName("A000001", ""))
}

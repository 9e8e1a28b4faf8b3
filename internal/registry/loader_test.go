package registry

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryYAML = `
organizations:
  - id: org-a
    name: Coral Reach Initiative
    contact_email: partners@coralreach.org
    domain: marine
    geography: Caribbean
    focus_areas:
      - coral restoration
      - reef monitoring
  - id: org-b
    name: GreenRoots Alliance
    domain: forest
    geography: Kenya
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(registryYAML), 0644))

	reg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	org := reg.Get("org-a")
	require.NotNil(t, org)
	assert.Equal(t, "Coral Reach Initiative", org.Name)
	assert.Equal(t, "partners@coralreach.org", org.ContactEmail)
	assert.Equal(t, []string{"coral restoration", "reef monitoring"}, org.FocusAreas)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("/nonexistent/registry.yaml")
	assert.Error(t, err)
}

func TestLoadFileEmptyRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("organizations: []"), 0644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no organizations")
}

type fakeS3 struct {
	body string
	err  error
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestLoadS3(t *testing.T) {
	reg, err := LoadS3(context.Background(), &fakeS3{body: registryYAML}, "outreach-config", "registry.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())
	assert.NotNil(t, reg.Get("org-b"))
}

func TestLoadS3FetchError(t *testing.T) {
	_, err := LoadS3(context.Background(), &fakeS3{err: errors.New("access denied")}, "outreach-config", "registry.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://outreach-config/registry.yaml")
}

package headshots

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("wtml.internal.headshots")

// Mirror stores member headshots: always to a local directory, and to
// a public s3 bucket when one is configured. the warehouse references
// whatever url Save hands back, so losing the clerk's image hosting
// does not blank out the site.
type Mirror struct {
	dir      string
	bucket   string
	baseUrl  string
	uploader *manager.Uploader
}

type Options struct {
	// local mirror directory, created if missing
	Dir string
	// optional s3 bucket that serves the images publicly
	Bucket string
	// public url prefix for uploaded images, derived from the bucket
	// name when empty
	BaseUrl string
}

func NewMirror(ctx context.Context, opts Options) (*Mirror, error) {
	if opts.Dir == "" {
		opts.Dir = "member-headshots"
	}
	err := os.MkdirAll(opts.Dir, 0o755)
	if err != nil {
		return nil, err
	}

	m := &Mirror{
		dir:     opts.Dir,
		bucket:  opts.Bucket,
		baseUrl: opts.BaseUrl,
	}
	if opts.Bucket != "" {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		m.uploader = manager.NewUploader(s3.NewFromConfig(cfg))
		if m.baseUrl == "" {
			m.baseUrl = fmt.Sprintf("https://%s.s3.amazonaws.com", opts.Bucket)
		}
	}
	return m, nil
}

// Save mirrors one headshot and returns the url the roster should
// carry: the bucket url when uploading, the source url otherwise.
func (m *Mirror) Save(ctx context.Context, slug, srcUrl string, image []byte) (string, error) {
	ctx, span := tracer.Start(ctx, "mirror:Save")
	defer span.End()

	name := imageName(slug, srcUrl)
	err := os.WriteFile(filepath.Join(m.dir, name), image, 0o644)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write local copy")
		return "", err
	}

	if m.uploader == nil {
		return srcUrl, nil
	}

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "image/jpeg"
	}
	_, err = m.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(image),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upload headshot")
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return m.baseUrl + "/" + name, nil
}

// imageName keys the stored copy by directory slug, the extension
// follows whatever the clerk serves
func imageName(slug, srcUrl string) string {
	ext := ".jpg"
	if parsed, err := url.Parse(srcUrl); err == nil {
		if e := path.Ext(parsed.Path); e != "" {
			ext = e
		}
	}
	return slug + ext
}

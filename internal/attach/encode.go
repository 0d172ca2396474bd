// Package attach turns user-selected files into inline base64 attachments.
package attach

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/rayahealth/intake/internal/form"
)

var (
	ErrNotAccepted = errors.New("file type not accepted")
	ErrTooLarge    = errors.New("file too large")
)

// Rule restricts what a file field takes. Accept entries are extensions
// such as ".pdf" or the wildcard "image/*".
type Rule struct {
	Accept   []string
	MaxBytes int64
	Hint     string
}

// Encode reads r to the end and returns its content as standard base64.
func Encode(ctx context.Context, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf strings.Builder
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	if _, err := io.Copy(enc, ctxReader{ctx: ctx, r: r}); err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding file: %w", err)
	}
	return buf.String(), nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// EncodeFile reads path into an attachment. With enforce set, the rule's
// size limit and accept-list are checked first; otherwise they are only
// hints for the picker.
func EncodeFile(ctx context.Context, path string, rule Rule, enforce bool) (form.Attachment, error) {
	f, err := os.Open(path)
	if err != nil {
		return form.Attachment{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return form.Attachment{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return form.Attachment{}, fmt.Errorf("%s is a directory", path)
	}
	if enforce && rule.MaxBytes > 0 && info.Size() > rule.MaxBytes {
		return form.Attachment{}, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, filepath.Base(path), info.Size(), rule.MaxBytes)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return form.Attachment{}, fmt.Errorf("reading %s: %w", path, err)
	}
	head = head[:n]

	name := filepath.Base(path)
	contentType := DetectContentType(name, head, f)
	if enforce && !rule.accepts(name, contentType) {
		return form.Attachment{}, fmt.Errorf("%w: %s (allowed: %s)", ErrNotAccepted, name, strings.Join(rule.Accept, ", "))
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return form.Attachment{}, fmt.Errorf("rewinding %s: %w", path, err)
	}
	encoded, err := Encode(ctx, f)
	if err != nil {
		return form.Attachment{}, fmt.Errorf("%s: %w", name, err)
	}
	return form.Attachment{Name: name, Encoded: encoded, ContentType: contentType}, nil
}

// EncodeAll encodes several files concurrently, keeping the input order.
func EncodeAll(ctx context.Context, paths []string, rule Rule, enforce bool) ([]form.Attachment, error) {
	out := make([]form.Attachment, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, p := range paths {
		g.Go(func() error {
			a, err := EncodeFile(ctx, p, rule, enforce)
			if err != nil {
				return err
			}
			out[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

var extensionTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".heic": "image/heic",
}

var imageFormats = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"webp": "image/webp",
}

// DetectContentType picks the declared type of a file: the extension table
// first, then image header sniffing, then net/http content sniffing. full
// may be nil; when set it is used to read past head for image headers.
func DetectContentType(name string, head []byte, full io.ReadSeeker) string {
	if ct, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	var r io.Reader = bytes.NewReader(head)
	if full != nil {
		if _, err := full.Seek(0, io.SeekStart); err == nil {
			r = full
		}
	}
	if _, format, err := image.DecodeConfig(r); err == nil {
		if ct, ok := imageFormats[format]; ok {
			return ct
		}
	}
	if len(head) == 0 {
		return "application/octet-stream"
	}
	ct := http.DetectContentType(head)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return ct
}

func (r Rule) accepts(name, contentType string) bool {
	if len(r.Accept) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext != "" && slices.Contains(r.Accept, ext) {
		return true
	}
	return slices.Contains(r.Accept, "image/*") && strings.HasPrefix(contentType, "image/")
}

// AcceptList renders the accept-list the way a file picker declares it.
func (r Rule) AcceptList() string { return strings.Join(r.Accept, ",") }

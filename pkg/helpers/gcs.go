package helpers

import (
	"context"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsPublicHost = "https://storage.googleapis.com"

// NewGCSClient opens a Cloud Storage client. Credentials come from credsPath,
// or Application Default Credentials when it is empty. A non-empty endpoint
// points the client at an emulator and skips authentication.
func NewGCSClient(ctx context.Context, credsPath, endpoint string) (*storage.Client, error) {
	var opts []option.ClientOption
	switch {
	case endpoint != "":
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	case credsPath != "":
		opts = append(opts, option.WithCredentialsFile(credsPath))
	}
	return storage.NewClient(ctx, opts...)
}

// PublicURL is the anonymous download URL of bucket/objectPath.
func PublicURL(bucket, objectPath string) string {
	segs := strings.Split(strings.TrimPrefix(objectPath, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return gcsPublicHost + "/" + url.PathEscape(bucket) + "/" + strings.Join(segs, "/")
}

package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// fakeS3 records PutObject calls; every other S3API method panics through the nil embed
type fakeS3 struct {
	s3iface.S3API
	inputs   []*s3.PutObjectInput
	bodies   [][]byte
	deadline bool
	err      error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	_, f.deadline = ctx.Deadline()
	body, _ := io.ReadAll(input.Body)
	f.inputs = append(f.inputs, input)
	f.bodies = append(f.bodies, body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, format)
}

func testConfig() Config {
	return Config{Bucket: "renders", Region: "us-east-1", Prefix: "rtiow/", Timeout: time.Second}
}

func TestUploader_Upload(t *testing.T) {
	fake := &fakeS3{}
	logger := &recordingLogger{}
	u := NewUploaderWithClient(fake, testConfig(), logger)

	key, err := u.Upload(context.Background(), "materials.png", "image/png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if key != "rtiow/materials.png" {
		t.Errorf("Key = %q, want rtiow/materials.png", key)
	}

	if len(fake.inputs) != 1 {
		t.Fatalf("Expected one PutObject call, got %d", len(fake.inputs))
	}
	in := fake.inputs[0]
	if aws.StringValue(in.Bucket) != "renders" || aws.StringValue(in.Key) != key {
		t.Errorf("Put to %s/%s", aws.StringValue(in.Bucket), aws.StringValue(in.Key))
	}
	if aws.StringValue(in.ContentType) != "image/png" || aws.Int64Value(in.ContentLength) != 9 {
		t.Errorf("Unexpected content headers: %s, %d", aws.StringValue(in.ContentType), aws.Int64Value(in.ContentLength))
	}
	if string(fake.bodies[0]) != "png-bytes" {
		t.Errorf("Body = %q", fake.bodies[0])
	}
	if !fake.deadline {
		t.Error("Expected the upload context to carry the timeout")
	}
	if len(logger.lines) != 1 {
		t.Errorf("Expected one log line, got %d", len(logger.lines))
	}
}

func TestUploader_UploadError(t *testing.T) {
	fake := &fakeS3{err: errors.New("access denied")}
	u := NewUploaderWithClient(fake, testConfig(), nil)

	_, err := u.Upload(context.Background(), "a.png", "image/png", nil)
	if !errors.Is(err, fake.err) {
		t.Errorf("Expected wrapped S3 error, got %v", err)
	}
}

func TestConfig_Key(t *testing.T) {
	tests := []struct {
		prefix string
		name   string
		want   string
	}{
		{"", "a.png", "a.png"},
		{"renders", "a.png", "renders/a.png"},
		{"/renders/", "/a.png", "renders/a.png"},
		{"a/b", "c.ppm", "a/b/c.ppm"},
	}
	for _, tt := range tests {
		cfg := Config{Prefix: tt.prefix}
		if got := cfg.Key(tt.name); got != tt.want {
			t.Errorf("Key(%q) with prefix %q = %q, want %q", tt.name, tt.prefix, got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"static keys", func(c *Config) { c.AccessKey, c.SecretKey = "id", "secret" }, false},
		{"no bucket", func(c *Config) { c.Bucket = "" }, true},
		{"half credentials", func(c *Config) { c.AccessKey = "id" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr != (err != nil) {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrNotConfigured) {
				t.Errorf("Expected ErrNotConfigured, got %v", err)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "RTIOW_S3_BUCKET=from-file\nRTIOW_S3_PREFIX=file-prefix\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RTIOW_ENV_FILE", envFile)
	t.Setenv("RTIOW_S3_BUCKET", "")
	os.Unsetenv("RTIOW_S3_BUCKET")
	t.Setenv("RTIOW_S3_PREFIX", "from-env")
	t.Setenv("RTIOW_S3_TIMEOUT", "5s")
	t.Setenv("RTIOW_S3_REGION", "eu-west-1")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv() error: %v", err)
	}
	if cfg.Bucket != "from-file" {
		t.Errorf("Bucket = %q, want the .env value", cfg.Bucket)
	}
	if cfg.Prefix != "from-env" {
		t.Errorf("Prefix = %q, want the environment to win over .env", cfg.Prefix)
	}
	if cfg.Timeout != 5*time.Second || cfg.Region != "eu-west-1" {
		t.Errorf("Timeout/region = %v/%q", cfg.Timeout, cfg.Region)
	}
}

func TestConfigFromEnv_BadTimeout(t *testing.T) {
	t.Setenv("RTIOW_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("RTIOW_S3_BUCKET", "b")
	t.Setenv("RTIOW_S3_TIMEOUT", "soon")

	if _, err := ConfigFromEnv(); err == nil {
		t.Error("Expected an error for an unparseable timeout")
	}
}

func TestNewUploader(t *testing.T) {
	cfg := testConfig()
	cfg.Endpoint = "http://localhost:9000"
	cfg.AccessKey, cfg.SecretKey = "id", "secret"

	u, err := NewUploader(cfg, nil)
	if err != nil {
		t.Fatalf("NewUploader() error: %v", err)
	}
	client, ok := u.client.(*s3.S3)
	if !ok {
		t.Fatalf("Expected an *s3.S3 client, got %T", u.client)
	}
	if client.Endpoint != cfg.Endpoint {
		t.Errorf("Endpoint = %q, want %q", client.Endpoint, cfg.Endpoint)
	}

	if _, err := NewUploader(Config{}, nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

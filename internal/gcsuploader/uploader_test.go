package gcsuploader

import "testing"

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://my-bucket/statements/julio.csv", "my-bucket", "statements/julio.csv", false},
		{"gs://my-bucket/file.xlsx", "my-bucket", "file.xlsx", false},
		{"gs://my-bucket/", "", "", true},
		{"gs://my-bucket", "", "", true},
		{"https://storage.googleapis.com/b/f.csv", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		bucket, object, err := ParseGCSURI(tt.uri)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGCSURI(%q) err = %v, wantErr %v", tt.uri, err, tt.wantErr)
			continue
		}
		if bucket != tt.wantBucket || object != tt.wantObject {
			t.Errorf("ParseGCSURI(%q) = (%q, %q), want (%q, %q)", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
		}
	}
}

func TestFilenameFromGCSURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"gs://bucket/statements/nu_credit_julio.csv", "nu_credit_julio.csv"},
		{"gs://bucket/file.csv", "file.csv"},
		{"gs://bucket", "bucket"},
	}
	for _, tt := range tests {
		if got := FilenameFromGCSURI(tt.uri); got != tt.want {
			t.Errorf("FilenameFromGCSURI(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

package ingest

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    []Record
		wantErr error
	}{
		{
			name:    "header and rows",
			content: []byte("user_code,name\nU001,Taro\nU002,Hanako\n"),
			want: []Record{
				{"user_code": "U001", "name": "Taro"},
				{"user_code": "U002", "name": "Hanako"},
			},
		},
		{
			name:    "BOM is stripped",
			content: append([]byte{0xEF, 0xBB, 0xBF}, []byte("user_code,name\nU001,Taro\n")...),
			want: []Record{
				{"user_code": "U001", "name": "Taro"},
			},
		},
		{
			name:    "all-empty rows are skipped",
			content: []byte("user_code,name\n,\nU001,Taro\n,\n"),
			want: []Record{
				{"user_code": "U001", "name": "Taro"},
			},
		},
		{
			name:    "quoted fields",
			content: []byte("name,notice_text\n\"Taro\",\"hello, world\"\n"),
			want: []Record{
				{"name": "Taro", "notice_text": "hello, world"},
			},
		},
		{
			name:    "empty content",
			content: []byte(""),
			wantErr: ErrEmptyData,
		},
		{
			name:    "header only",
			content: []byte("user_code,name\n"),
			wantErr: ErrEmptyData,
		},
		{
			name:    "only empty rows",
			content: []byte("user_code,name\n,\n,\n"),
			wantErr: ErrEmptyData,
		},
		{
			name:    "over size cap",
			content: bytes.Repeat([]byte("a"), MaxCSVSize+1),
			wantErr: ErrPayloadTooLarge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.content)
			if tt.wantErr != nil {
				if errors.Cause(err) != tt.wantErr {
					t.Fatalf("Parse() error = %v; want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Parse() returned %d records; want %d", len(got), len(tt.want))
			}
			for i, rec := range got {
				for k, v := range tt.want[i] {
					if rec[k] != v {
						t.Errorf("record %d: %s = %q; want %q", i, k, rec[k], v)
					}
				}
			}
		})
	}
}

func TestParse_malformedCSV(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"inconsistent column count", []byte("a,b\n1,2,3\n")},
		{"unbalanced quote", []byte("a,b\n\"1,2\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.content)
			var fErr *FormatError
			if !errors.As(err, &fErr) {
				t.Fatalf("Parse() error = %v; want FormatError", err)
			}
		})
	}
}

func TestParse_invalidEncoding(t *testing.T) {
	_, err := Parse([]byte{'a', ',', 'b', '\n', 0xFF, 0xFE, ',', 'x', '\n'})
	var eErr *EncodingError
	if !errors.As(err, &eErr) {
		t.Fatalf("Parse() error = %v; want EncodingError", err)
	}
}

package images

import (
	"context"
	"sync"
)

// File is one upload entering the pipeline.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadFunc commits one normalized file; index is the file's position
// in the submitted batch.
type UploadFunc func(ctx context.Context, index int, data []byte, contentType string) (url string, err error)

// Result reports one file's outcome. Failures are isolated: a failed
// file does not abort the batch and successfully uploaded files stay
// committed.
type Result struct {
	Index int
	URL   string
	Err   error
}

// IngestAll validates, normalizes and uploads a batch of files
// concurrently, waiting for all before returning. Results come back in
// input order.
func IngestAll(ctx context.Context, converter Converter, files []File, maxSize int64, upload UploadFunc) []Result {
	results := make([]Result, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f File) {
			defer wg.Done()
			results[i] = Result{Index: i}

			if err := Validate(f.Name, f.ContentType, int64(len(f.Data)), maxSize); err != nil {
				results[i].Err = err
				return
			}

			data, contentType := Normalize(converter, f.Data, f.ContentType)
			url, err := upload(ctx, i, data, contentType)
			if err != nil {
				results[i].Err = err
				return
			}
			results[i].URL = url
		}(i, f)
	}
	wg.Wait()

	return results
}

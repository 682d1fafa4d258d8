// Package file reads configuration documents from the local filesystem or
// from S3.
//
// A document reference is either a path or an s3://bucket/key URI:
//
//	loc, err := file.ParseLocation(os.Getenv("FORMS_FILE"))
//	if err != nil {
//		return err
//	}
//	var src file.Source
//	if loc.IsS3() {
//		cfg.Bucket = loc.Bucket
//		src, err = file.NewS3Source(ctx, cfg)
//	} else {
//		src, err = file.NewLocalSource("")
//	}
//	b, err := file.ReadAll(ctx, src, loc.Name, 0)
//
// Both sources report a missing document as ErrFileNotFound. S3 failures are
// classified into ErrAccessDenied, ErrBucketNotFound and
// ErrServiceUnavailable where the SDK error allows it.
package file

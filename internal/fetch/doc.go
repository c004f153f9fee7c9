package fetch

// Package fetch downloads an image over HTTP(S) and decodes it into an
// in-memory pixel buffer. JPEG, PNG and GIF use the standard codecs; WebP,
// BMP and TIFF are registered from golang.org/x/image.

package source

// Documents longer than DefaultChunkThreshold characters are stored in
// DefaultChunkSize pieces instead of one contiguous buffer.
const (
	DefaultChunkThreshold = 64 * 1024
	DefaultChunkSize      = 16 * 1024
)

type storage interface {
	length() int
	at(index int) rune
	copyTo(dst []rune, start int)
}

type contiguous []rune

func (c contiguous) length() int { return len(c) }

func (c contiguous) at(index int) rune { return c[index] }

func (c contiguous) copyTo(dst []rune, start int) { copy(dst, c[start:]) }

type chunked struct {
	chunks [][]rune
	size   int
	n      int
}

// newChunked decodes content straight into chunks of size runes; n is the
// rune count of content.
func newChunked(content string, n, size int) *chunked {
	store := &chunked{size: size, n: n, chunks: make([][]rune, 0, (n+size-1)/size)}
	var chunk []rune
	for _, r := range content {
		if chunk == nil {
			chunk = make([]rune, 0, min(size, n-len(store.chunks)*size))
		}
		chunk = append(chunk, r)
		if len(chunk) == size {
			store.chunks = append(store.chunks, chunk)
			chunk = nil
		}
	}
	if chunk != nil {
		store.chunks = append(store.chunks, chunk)
	}
	return store
}

func (c *chunked) length() int { return c.n }

func (c *chunked) at(index int) rune {
	return c.chunks[index/c.size][index%c.size]
}

func (c *chunked) copyTo(dst []rune, start int) {
	written := 0
	for written < len(dst) {
		pos := start + written
		chunk := c.chunks[pos/c.size]
		written += copy(dst[written:], chunk[pos%c.size:])
	}
}

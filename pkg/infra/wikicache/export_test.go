package wikicache

var SplitPayload = splitPayload

// SetChunkSize changes the size at which wiki bodies are split into chunk documents
func (x *Firestore) SetChunkSize(size int) {
	x.chunkSize = size
}

package topics

const (
	// Snapshots normalizados publicados pelos pollers
	MatchSnapshots = "match_snapshots"

	// DLQ do relay para mensagens que não decodificam
	MatchSnapshotsDLQ = "match_snapshots_dlq"
)

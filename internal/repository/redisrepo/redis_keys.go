package redisrepo

import "fmt"

const (
	PARTITION_KEY     = "blog:partition:%d:%s:%t:%s:%s" // <generation>:<status>:<legacy>:<category>:<tag>
	PARTITION_PATTERN = "blog:partition:*"

	// PARTITION_GENERATION is bumped on every mutation. Partition keys embed it,
	// so a fill that raced a mutation lands under a key nobody reads again.
	PARTITION_GENERATION = "blog:partition-generation"
)

func PartitionKey(generation int64, status string, legacy bool, category string, tag string) string {
	return fmt.Sprintf(PARTITION_KEY, generation, status, legacy, category, tag)
}

package score

import (
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
)

var replicationKeywords = []string{"replication", "reproducibility", "independent study"}

// Replication counts records whose title or venue mentions a replication
func Replication(evidence []model.EvidenceRecord) string {
	if len(evidence) == 0 {
		return model.ReplicationNone
	}

	count := 0
	for _, r := range evidence {
		text := strings.ToLower(r.Title + "\n" + r.Venue)
		for _, kw := range replicationKeywords {
			if strings.Contains(text, kw) {
				count++
				break
			}
		}
	}

	switch count {
	case 0:
		return model.ReplicationOriginalOnly
	case 1:
		return model.ReplicationPartial
	default:
		return model.ReplicationReplicated
	}
}

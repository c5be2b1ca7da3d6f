package candidates

import (
	"time"

	"github.com/spigell/resume-ranker/internal/utils"
)

// Pool is an ordered set of resumes competing for one job.
// Removals keep the relative order of the remaining items.
type Pool struct {
	Items []*Resume
}

func NewPool(resumes []*Resume) *Pool {
	items := make([]*Resume, len(resumes))
	copy(items, resumes)
	return &Pool{Items: items}
}

func (p *Pool) Len() int {
	return len(p.Items)
}

func (p *Pool) IDs() []string {
	ids := make([]string, 0, len(p.Items))
	for _, resume := range p.Items {
		ids = append(ids, resume.ID)
	}
	return ids
}

func (p *Pool) FindByID(id string) *Resume {
	for _, resume := range p.Items {
		if resume.ID == id {
			return resume
		}
	}
	return nil
}

// Exclude removes resumes whose ID is in ids and returns the removed IDs.
func (p *Pool) Exclude(ids []string) []string {
	targets := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		targets[id] = struct{}{}
	}

	return p.Keep(func(r *Resume) bool {
		_, found := targets[r.ID]
		return !found
	})
}

// Keep retains resumes for which keep returns true and returns the dropped IDs.
func (p *Pool) Keep(keep func(*Resume) bool) []string {
	var dropped []string
	kept := p.Items[:0]
	for _, resume := range p.Items {
		if keep(resume) {
			kept = append(kept, resume)
			continue
		}
		dropped = append(dropped, resume.ID)
	}

	for i := len(kept); i < len(p.Items); i++ {
		p.Items[i] = nil
	}
	p.Items = kept
	return dropped
}

func (p *Pool) DumpToTmpFile() (string, error) {
	return utils.DumpToTmpFile("candidates_*.json", p)
}

func (p *Pool) ToExcluded(reason string) *ExcludedCandidates {
	excluded := &ExcludedCandidates{}
	for _, resume := range p.Items {
		excluded.Items = append(excluded.Items, &ExcludedCandidate{
			ID:         resume.ID,
			Reason:     reason,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

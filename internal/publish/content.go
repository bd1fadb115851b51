package publish

import (
	"github.com/devledger/devledger/internal/analysis"
	"github.com/devledger/devledger/internal/store/model"
)

// Content builders assemble the immutable asset body sent to the ledger
// node. Already-published records are referenced by their UAL so assets
// link to each other instead of duplicating state.

func profileContent(p model.Profile) map[string]any {
	content := map[string]any{
		"type":        "profile",
		"username":    p.Username,
		"displayName": p.DisplayName,
		"bio":         p.Bio,
	}
	if p.Skills != nil {
		content["skills"] = p.Skills.Data
	}
	if p.GithubURL != "" {
		content["githubUrl"] = p.GithubURL
	}
	if p.WalletAddress != "" {
		content["walletAddress"] = p.WalletAddress
	}
	return content
}

func projectContent(p model.Project, owner *model.Profile, record *analysis.Record) map[string]any {
	content := map[string]any{
		"type":         "project",
		"name":         p.Name,
		"description":  p.Description,
		"repoUrl":      p.RepoURL,
		"repoPushedAt": p.RepoPushedAt.UTC(),
	}
	if record != nil {
		content["score"] = record.Score
		content["scoreBreakdown"] = map[string]int{
			"activity":   record.Breakdown.Activity,
			"structure":  record.Breakdown.Structure,
			"narrative":  record.Breakdown.Narrative,
			"popularity": record.Breakdown.Popularity,
		}
		content["analysis"] = record.Narrative
		content["analysisHash"] = record.Hash
	}
	if ual := publishedUAL(owner); ual != nil {
		content["profileUal"] = *ual
	}
	return content
}

func endorsementContent(e model.Endorsement, endorser, endorsee *model.Profile, project *model.Project) map[string]any {
	content := map[string]any{
		"type":    "endorsement",
		"comment": e.Comment,
		"weight":  e.Weight,
	}
	if ual := publishedUAL(endorser); ual != nil {
		content["endorserUal"] = *ual
	}
	if ual := publishedUAL(endorsee); ual != nil {
		content["endorseeUal"] = *ual
	}
	if project != nil && project.Publish.PublishStatus == model.PublishStatusCompleted && project.Publish.UAL != nil {
		content["projectUal"] = *project.Publish.UAL
	}
	return content
}

func publishedUAL(p *model.Profile) *string {
	if p == nil || p.Publish.PublishStatus != model.PublishStatusCompleted {
		return nil
	}
	return p.Publish.UAL
}

package wadsearch

import (
	"path/filepath"
	"strings"
)

// ScoreRequest is the decomposed form of a resolution request handed to
// Score: the bare file stem, the requested extension (empty when the request
// carried none), and any directory components the request was written with.
type ScoreRequest struct {
	Stem    string
	Ext     string
	Parents []string
}

// Score rates how well a candidate path matches the request. The weights are
// additive:
//
//	+2  stem matches ignoring case
//	+5  stem matches exactly
//	+1  extension matches ignoring case (always granted when none requested)
//	+10 extension match combined with the case-insensitive stem match
//	+5  extension match combined with the exact stem match
//	+20 request directory components match the candidate's parent chain,
//	    combined with the case-insensitive stem match
//
// A score of 0 or 1 is not admissible; callers discard such candidates
// outright. The bias strongly prefers exact stem+extension matches and
// path-shape matches over a loose stem match, which is what disambiguates
// the many WAD variants that share a stem.
func Score(req ScoreRequest, candidate string) int {
	base := filepath.Base(candidate)
	candExt := strings.TrimPrefix(filepath.Ext(base), ".")
	candStem := strings.TrimSuffix(base, filepath.Ext(base))

	stemsEq := strings.EqualFold(candStem, req.Stem)
	stemsCaseEq := candStem == req.Stem
	extMatch := req.Ext == "" || strings.EqualFold(candExt, req.Ext)
	parentsEq := len(req.Parents) > 0 && parentChainMatches(req.Parents, candidate)

	score := 0
	if stemsEq {
		score += 2
	}
	if stemsCaseEq {
		score += 5
	}
	if extMatch {
		score += 1
		if stemsEq {
			score += 10
		}
		if stemsCaseEq {
			score += 5
		}
	}
	if stemsEq && parentsEq {
		score += 20
	}
	return score
}

// parentChainMatches reports whether the candidate's parent directories end
// with the requested components, element by element. A request for
// "iwad/doom2" therefore favors ".../iwad/doom2.wad" over ".../pwad/doom2.wad".
func parentChainMatches(parents []string, candidate string) bool {
	dir := filepath.Dir(candidate)
	components := strings.Split(filepath.ToSlash(dir), "/")
	cleaned := components[:0]
	for _, component := range components {
		if component != "" && component != "." {
			cleaned = append(cleaned, component)
		}
	}
	components = cleaned

	if len(components) < len(parents) {
		return false
	}
	offset := len(components) - len(parents)
	for i, parent := range parents {
		if components[offset+i] != parent {
			return false
		}
	}
	return true
}

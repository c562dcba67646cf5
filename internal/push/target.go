package push

import (
	"fmt"
	"strings"

	"github.com/temirov/textgen/internal/gitrepo"
)

const unsupportedTargetErrorTemplate = "unsupported remote %q: expected one of %s"

// Accepted target names.
const (
	TargetGitHub      = "github"
	TargetHuggingFace = "hf"
	TargetOrigin      = gitrepo.OriginRemoteName
	TargetSpace       = gitrepo.SpaceRemoteName
)

var targetRemoteNames = map[string]string{
	TargetGitHub:      gitrepo.OriginRemoteName,
	TargetHuggingFace: gitrepo.SpaceRemoteName,
	TargetOrigin:      gitrepo.OriginRemoteName,
	TargetSpace:       gitrepo.SpaceRemoteName,
}

// SupportedTargets lists accepted target names in display order.
func SupportedTargets() []string {
	return []string{TargetGitHub, TargetHuggingFace, TargetOrigin, TargetSpace}
}

// ResolveRemoteName maps a target argument to the git remote it refers to.
func ResolveRemoteName(target string) (string, error) {
	remoteName, supported := targetRemoteNames[strings.ToLower(strings.TrimSpace(target))]
	if !supported {
		return "", fmt.Errorf(unsupportedTargetErrorTemplate, target, strings.Join(SupportedTargets(), ", "))
	}
	return remoteName, nil
}

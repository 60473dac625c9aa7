package gitrepo

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const (
	sshUserDelimiterConstant            = "@"
	scpPathDelimiterConstant            = ":"
	schemeDelimiterConstant             = "://"
	fileSchemeConstant                  = "file"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	requiredValueMessageConstant        = "remote location is required"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	unknownProtocolMessageConstant      = "unsupported remote protocol"
)

// RemoteProtocol enumerates recognized git transport families.
type RemoteProtocol string

// Recognized transport families.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
	RemoteProtocolGit   RemoteProtocol = RemoteProtocol("git")
	RemoteProtocolLocal RemoteProtocol = RemoteProtocol("local")
)

// RemoteIdentity is the transport-independent identity of a repository location.
type RemoteIdentity struct {
	Protocol RemoteProtocol
	Host     string
	Path     string
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemoteIdentity converts a textual remote location into a RemoteIdentity.
func ParseRemoteIdentity(remote string) (RemoteIdentity, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteIdentity{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	if strings.Contains(trimmedRemote, schemeDelimiterConstant) {
		return parseSchemeRemote(trimmedRemote)
	}
	if isScpStyleRemote(trimmedRemote) {
		return parseScpRemote(trimmedRemote)
	}
	return parseLocalRemote(trimmedRemote), nil
}

// SameRepository reports whether two remote locations point at the same repository regardless of transport,
// user name, port, or ".git" suffix. Unparseable locations fall back to exact comparison.
func SameRepository(left string, right string) bool {
	leftIdentity, leftError := ParseRemoteIdentity(left)
	rightIdentity, rightError := ParseRemoteIdentity(right)
	if leftError != nil || rightError != nil {
		return strings.TrimSpace(left) == strings.TrimSpace(right)
	}
	if (leftIdentity.Protocol == RemoteProtocolLocal) != (rightIdentity.Protocol == RemoteProtocolLocal) {
		return false
	}
	return leftIdentity.Host == rightIdentity.Host && leftIdentity.Path == rightIdentity.Path
}

func parseSchemeRemote(remote string) (RemoteIdentity, error) {
	parsedURL, parseError := url.Parse(remote)
	if parseError != nil {
		return RemoteIdentity{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	switch strings.ToLower(parsedURL.Scheme) {
	case fileSchemeConstant:
		return parseLocalRemote(parsedURL.Path), nil
	case "ssh", "git+ssh", "ssh+git":
		return buildNetworkIdentity(RemoteProtocolSSH, parsedURL.Hostname(), parsedURL.Path, remote)
	case "https", "http":
		return buildNetworkIdentity(RemoteProtocolHTTPS, parsedURL.Hostname(), parsedURL.Path, remote)
	case "git":
		return buildNetworkIdentity(RemoteProtocolGit, parsedURL.Hostname(), parsedURL.Path, remote)
	default:
		return RemoteIdentity{}, RemoteURLParseError{Input: remote, Message: unknownProtocolMessageConstant}
	}
}

func isScpStyleRemote(remote string) bool {
	delimiterIndex := strings.Index(remote, scpPathDelimiterConstant)
	if delimiterIndex <= 0 {
		return false
	}
	slashIndex := strings.Index(remote, pathSeparatorConstant)
	if slashIndex != -1 && slashIndex < delimiterIndex {
		return false
	}
	// A single drive letter ("C:") is a Windows path, not a host.
	hostPart := remote[:delimiterIndex]
	return len(hostPart) > 1 || strings.Contains(hostPart, sshUserDelimiterConstant)
}

func parseScpRemote(remote string) (RemoteIdentity, error) {
	delimiterIndex := strings.Index(remote, scpPathDelimiterConstant)
	hostPart := remote[:delimiterIndex]
	if userIndex := strings.LastIndex(hostPart, sshUserDelimiterConstant); userIndex != -1 {
		hostPart = hostPart[userIndex+1:]
	}
	return buildNetworkIdentity(RemoteProtocolSSH, hostPart, remote[delimiterIndex+1:], remote)
}

func buildNetworkIdentity(protocol RemoteProtocol, host string, path string, original string) (RemoteIdentity, error) {
	normalizedHost := strings.ToLower(strings.TrimSpace(host))
	normalizedPath := normalizeRepositoryPath(path)
	if len(normalizedHost) == 0 || len(normalizedPath) == 0 {
		return RemoteIdentity{}, RemoteURLParseError{Input: original, Message: invalidRemoteURLMessageConstant}
	}
	return RemoteIdentity{Protocol: protocol, Host: normalizedHost, Path: normalizedPath}, nil
}

func parseLocalRemote(path string) RemoteIdentity {
	cleanedPath := filepath.Clean(path)
	if absolutePath, absoluteError := filepath.Abs(cleanedPath); absoluteError == nil {
		cleanedPath = absolutePath
	}
	cleanedPath = strings.TrimSuffix(cleanedPath, string(filepath.Separator)+gitSuffixConstant)
	cleanedPath = strings.TrimSuffix(cleanedPath, gitSuffixConstant)
	return RemoteIdentity{Protocol: RemoteProtocolLocal, Path: cleanedPath}
}

func normalizeRepositoryPath(path string) string {
	trimmed := strings.Trim(strings.TrimSpace(path), pathSeparatorConstant)
	trimmed = strings.TrimSuffix(trimmed, gitSuffixConstant)
	return strings.TrimSuffix(trimmed, pathSeparatorConstant)
}

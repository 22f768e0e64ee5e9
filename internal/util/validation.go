// Package util provides validation helpers for cluster definitions.
package util

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"gridcfg.io/console/models"
)

// MaxNameLength is the maximum length of cluster and cache names.
const MaxNameLength = 128

// Cluster names end up in archive paths and file names.
var clusterNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

var (
	cacheModes     = map[string]bool{"": true, "PARTITIONED": true, "REPLICATED": true, "LOCAL": true}
	atomicityModes = map[string]bool{"": true, "ATOMIC": true, "TRANSACTIONAL": true}
)

// ValidateUUID checks if a string is a valid UUID.
//
// Parameters:
//   - id: The string to validate as UUID
//
// Returns:
//   - error: An error if the string is not a valid UUID, nil otherwise
//
// Example:
//
//	if err := util.ValidateUUID(sessionID); err != nil {
//	    sessionID = uuid.NewString()
//	}
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid UUID format: %w", err)
	}
	return nil
}

// ValidateClusterName checks that a cluster name is safe to use in file names.
//
// Parameters:
//   - name: The cluster name
//
// Returns:
//   - error: An error if the name is empty, too long, or contains characters
//     other than letters, digits, '.', '_' and '-'
func ValidateClusterName(name string) error {
	if name == "" {
		return fmt.Errorf("cluster name is required")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("cluster name exceeds %d characters", MaxNameLength)
	}
	if !clusterNameRegex.MatchString(name) {
		return fmt.Errorf("cluster name %q may only contain letters, digits, '.', '_' and '-'", name)
	}
	return nil
}

// ValidatePortRange checks if a port number is in valid range (1-65535).
func ValidatePortRange(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

// ValidateDiscoveryAddress checks a static discovery address of the form
// "host", "host:port" or "host:port..port".
//
// Example:
//
//	util.ValidateDiscoveryAddress("127.0.0.1:47500..47509") // nil
func ValidateDiscoveryAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("address is empty")
	}

	host, ports, err := net.SplitHostPort(addr)
	if err != nil {
		// A bare host without port is allowed.
		if strings.Contains(err.Error(), "missing port") {
			return nil
		}
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if host == "" {
		return fmt.Errorf("invalid address %q: empty host", addr)
	}

	from, to, isRange := strings.Cut(ports, "..")
	first, err := parsePort(from)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if !isRange {
		return nil
	}

	last, err := parsePort(to)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if last < first {
		return fmt.Errorf("invalid address %q: port range %d..%d is reversed", addr, first, last)
	}
	return nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return port, ValidatePortRange(port)
}

// ValidateMulticastGroup checks that group is a multicast IP address.
func ValidateMulticastGroup(group string) error {
	ip := net.ParseIP(group)
	if ip == nil {
		return fmt.Errorf("invalid IP address %q", group)
	}
	if !ip.IsMulticast() {
		return fmt.Errorf("%s is not a multicast address", group)
	}
	return nil
}

// ValidateCluster checks the structural rules of a cluster definition.
// Generator specific rules (dialects, Java types) are checked at export time.
//
// Returns:
//   - error: models.ErrInvalidCluster wrapping the first problem found
func ValidateCluster(c *models.Cluster) error {
	if err := validateCluster(c); err != nil {
		return fmt.Errorf("%w: %w", models.ErrInvalidCluster, err)
	}
	return nil
}

func validateCluster(c *models.Cluster) error {
	if c == nil {
		return fmt.Errorf("cluster is nil")
	}
	if err := ValidateClusterName(c.Name); err != nil {
		return err
	}

	switch c.Discovery.Kind {
	case "", "Vm":
		for _, addr := range c.Discovery.Addresses {
			if err := ValidateDiscoveryAddress(addr); err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}
		}
	case "Multicast":
		if c.Discovery.MulticastGroup != "" {
			if err := ValidateMulticastGroup(c.Discovery.MulticastGroup); err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}
		}
	default:
		return fmt.Errorf("%s: unsupported discovery kind %q", c.Name, c.Discovery.Kind)
	}

	seen := make(map[string]bool, len(c.Caches))
	for _, cache := range c.Caches {
		if cache.Name == "" {
			return fmt.Errorf("%s: cache name is required", c.Name)
		}
		if len(cache.Name) > MaxNameLength {
			return fmt.Errorf("%s: cache name exceeds %d characters", c.Name, MaxNameLength)
		}
		if seen[cache.Name] {
			return fmt.Errorf("%s: duplicate cache %q", c.Name, cache.Name)
		}
		seen[cache.Name] = true

		if !cacheModes[cache.CacheMode] {
			return fmt.Errorf("%s/%s: invalid cache mode %q", c.Name, cache.Name, cache.CacheMode)
		}
		if !atomicityModes[cache.AtomicityMode] {
			return fmt.Errorf("%s/%s: invalid atomicity mode %q", c.Name, cache.Name, cache.AtomicityMode)
		}
		if cache.Backups < 0 {
			return fmt.Errorf("%s/%s: backups must not be negative", c.Name, cache.Name)
		}
	}

	if near := c.ClientNearCfg; near != nil {
		if near.NearStartSize < 0 || near.MaxSize < 0 {
			return fmt.Errorf("%s: near cache sizes must not be negative", c.Name)
		}
	}

	return nil
}

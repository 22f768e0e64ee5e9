package util

import (
	"errors"
	"strings"
	"testing"

	"gridcfg.io/console/models"
)

func TestValidateUUID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{
			name:    "valid UUID v4",
			id:      "550e8400-e29b-41d4-a716-446655440000",
			wantErr: false,
		},
		{
			name:    "invalid UUID - too short",
			id:      "550e8400-e29b-41d4",
			wantErr: true,
		},
		{
			name:    "empty string",
			id:      "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUUID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUUID() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateClusterName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "prod", false},
		{"with separators", "prod-grid_v1.2", false},
		{"empty", "", true},
		{"leading dash", "-prod", true},
		{"path traversal", "../etc", true},
		{"slash", "a/b", true},
		{"space", "my cluster", true},
		{"too long", strings.Repeat("a", MaxNameLength+1), true},
		{"max length", strings.Repeat("a", MaxNameLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClusterName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateClusterName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDiscoveryAddress(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr bool
	}{
		{"127.0.0.1", false},
		{"127.0.0.1:47500", false},
		{"127.0.0.1:47500..47509", false},
		{"node-1.example.com:47500", false},
		{"[::1]:47500..47501", false},
		{"", true},
		{":47500", true},
		{"127.0.0.1:0", true},
		{"127.0.0.1:70000", true},
		{"127.0.0.1:47509..47500", true},
		{"127.0.0.1:abc", true},
		{"127.0.0.1:47500..", true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			err := ValidateDiscoveryAddress(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDiscoveryAddress(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMulticastGroup(t *testing.T) {
	if err := ValidateMulticastGroup("228.10.10.157"); err != nil {
		t.Errorf("ValidateMulticastGroup() error = %v", err)
	}
	if err := ValidateMulticastGroup("10.0.0.1"); err == nil {
		t.Error("unicast address accepted as multicast group")
	}
	if err := ValidateMulticastGroup("nope"); err == nil {
		t.Error("invalid address accepted")
	}
}

func TestValidateCluster(t *testing.T) {
	valid := func() *models.Cluster {
		return &models.Cluster{
			Name:      "prod",
			Discovery: models.DiscoveryConfig{Kind: "Vm", Addresses: []string{"127.0.0.1:47500..47509"}},
			Caches: []models.CacheConfig{
				{Name: "a", CacheMode: "PARTITIONED", AtomicityMode: "ATOMIC", Backups: 1},
				{Name: "b"},
			},
			ClientNearCfg: &models.NearCacheConfig{NearStartSize: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *models.Cluster)
		wantErr bool
	}{
		{"valid", func(c *models.Cluster) {}, false},
		{"multicast", func(c *models.Cluster) {
			c.Discovery = models.DiscoveryConfig{Kind: "Multicast", MulticastGroup: "228.10.10.157"}
		}, false},
		{"bad name", func(c *models.Cluster) { c.Name = "a/b" }, true},
		{"bad discovery kind", func(c *models.Cluster) { c.Discovery.Kind = "Zookeeper" }, true},
		{"bad address", func(c *models.Cluster) { c.Discovery.Addresses = []string{"host:0"} }, true},
		{"bad multicast", func(c *models.Cluster) {
			c.Discovery = models.DiscoveryConfig{Kind: "Multicast", MulticastGroup: "10.0.0.1"}
		}, true},
		{"duplicate cache", func(c *models.Cluster) { c.Caches[1].Name = "a" }, true},
		{"unnamed cache", func(c *models.Cluster) { c.Caches[1].Name = "" }, true},
		{"bad cache mode", func(c *models.Cluster) { c.Caches[0].CacheMode = "SHARDED" }, true},
		{"bad atomicity", func(c *models.Cluster) { c.Caches[0].AtomicityMode = "EVENTUAL" }, true},
		{"negative backups", func(c *models.Cluster) { c.Caches[0].Backups = -1 }, true},
		{"negative near size", func(c *models.Cluster) { c.ClientNearCfg.MaxSize = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)

			err := ValidateCluster(c)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCluster() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, models.ErrInvalidCluster) {
				t.Errorf("ValidateCluster() error %v does not wrap ErrInvalidCluster", err)
			}
		})
	}

	if err := ValidateCluster(nil); !errors.Is(err, models.ErrInvalidCluster) {
		t.Errorf("ValidateCluster(nil) error = %v", err)
	}
}

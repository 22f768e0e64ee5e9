package ui

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"gridcfg.io/console/internal/summary"
	"gridcfg.io/console/models"
	"gridcfg.io/console/pkg/bundle"
	"gridcfg.io/console/pkg/generator"
)

// Tab titles of each group, in tab index order.
var (
	serverTabs = []string{"XML", "Java", "POM", "Dockerfile"}
	clientTabs = []string{"XML", "Java", "POM", "POJO"}
)

func tabsOf(group string) []string {
	if group == models.TabGroupClient {
		return clientTabs
	}
	return serverTabs
}

// TabTitle returns the title of a tab, or its index if the group has no
// such tab.
func TabTitle(group string, index int) string {
	tabs := tabsOf(group)
	if index < 0 || index >= len(tabs) {
		return fmt.Sprintf("#%d", index)
	}
	return tabs[index]
}

// tabEnabled reports whether a tab can be activated for the state.
func tabEnabled(state *models.SummaryState, group string, index int) bool {
	if group == models.TabGroupClient && index == summary.PojoTabIndex {
		return state != nil && state.HasPojo
	}
	return true
}

// stepTab returns the next enabled tab in direction dir (+1 or -1),
// wrapping around. It returns current if no other tab is enabled.
func stepTab(state *models.SummaryState, group string, current, dir int) int {
	n := len(tabsOf(group))
	next := current
	for i := 0; i < n; i++ {
		next = ((next+dir)%n + n) % n
		if tabEnabled(state, group, next) {
			return next
		}
	}
	return current
}

// renderPreview renders the artifact shown by the active tab of group.
func renderPreview(gen *generator.Generator, platformVersion string, cluster *models.Cluster, group string, tab int) (string, error) {
	if cluster == nil {
		return "", nil
	}

	var nearCfg *models.NearCacheConfig
	factory := bundle.ClassServerFactory
	if group == models.TabGroupClient {
		nearCfg = cluster.ClientNearCfg
		factory = bundle.ClassClientFactory
	}

	switch tab {
	case 0:
		return gen.ClusterXML(cluster, nearCfg)
	case 1:
		return gen.ConfigurationFactory(cluster, bundle.FactoryPackage, factory, nearCfg)
	case 2:
		return gen.POM(cluster, platformVersion)
	case 3:
		if group == models.TabGroupServer {
			return gen.Docker(cluster)
		}
		return renderPojos(gen, cluster)
	default:
		return "", fmt.Errorf("no preview for tab %d", tab)
	}
}

func renderPojos(gen *generator.Generator, cluster *models.Cluster) (string, error) {
	metas, err := gen.Pojos(cluster)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, meta := range metas {
		if meta.KeyClass != "" {
			fmt.Fprintf(&b, "// %s\n%s\n", bundle.ClassPath(meta.KeyType), meta.KeyClass)
		}
		fmt.Fprintf(&b, "// %s\n%s\n", bundle.ClassPath(meta.ValueType), meta.ValueClass)
	}
	return b.String(), nil
}

// clip wraps text to width and keeps at most height lines.
func clip(text string, width, height int) string {
	if width > 0 {
		text = wordwrap.WrapString(text, uint(width))
	}

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if height > 0 && len(lines) > height {
		hidden := len(lines) - height + 1
		lines = append(lines[:height-1], dimStyle.Render(fmt.Sprintf("… %d more lines", hidden)))
	}
	return strings.Join(lines, "\n")
}

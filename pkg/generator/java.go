package generator

import (
	"fmt"

	"gridcfg.io/console/models"
	"gridcfg.io/console/pkg/bundle"
)

type factoryView struct {
	*clusterView
	Package string
	Class   string
}

type startupView struct {
	Package       string
	Class         string
	ClusterName   string
	CfgExpr       string
	FactoryImport string
	Near          *models.NearCacheConfig
	NearEviction  string
	Caches        []string
}

// ConfigurationFactory renders a Java class whose createConfiguration method
// builds the same configuration as the Spring XML.
func (g *Generator) ConfigurationFactory(cluster *models.Cluster, pkg, class string, nearCfg *models.NearCacheConfig) (string, error) {
	if err := validClass(pkg, class); err != nil {
		return "", err
	}

	view, err := newClusterView(cluster, nearCfg)
	if err != nil {
		return "", err
	}

	return g.render("factory", factoryView{clusterView: view, Package: pkg, Class: class})
}

// NodeStartup renders a Java class with a main method starting one node.
func (g *Generator) NodeStartup(cluster *models.Cluster, pkg, class string, args bundle.StartupArgs) (string, error) {
	if err := validClass(pkg, class); err != nil {
		return "", err
	}
	if args.CfgExpr == "" {
		return "", fmt.Errorf("startup %s has no configuration expression", class)
	}
	if args.FactoryImport != "" {
		if err := validType(args.FactoryImport); err != nil {
			return "", err
		}
	}

	view := startupView{
		Package:       pkg,
		Class:         class,
		ClusterName:   cluster.Name,
		CfgExpr:       args.CfgExpr,
		FactoryImport: args.FactoryImport,
		Near:          args.NearCfg,
	}

	if args.NearCfg != nil {
		cv, err := newClusterView(cluster, args.NearCfg)
		if err != nil {
			return "", err
		}
		view.NearEviction = cv.NearEviction
		for _, cache := range cv.Caches {
			view.Caches = append(view.Caches, cache.Name)
		}
	}

	return g.render("startup", view)
}

func validClass(pkg, class string) error {
	if pkg != "" {
		if err := validType(pkg); err != nil {
			return err
		}
	}
	if !javaIdentRegex.MatchString(class) {
		return fmt.Errorf("invalid Java class name %q", class)
	}
	return nil
}

const factoryTemplate = `{{if .Package}}package {{.Package}};

{{end}}import java.io.InputStream;
import java.util.Arrays;
import java.util.Properties;
import javax.sql.DataSource;
import org.apache.ignite.cache.*;
import org.apache.ignite.cache.store.jdbc.*;
import org.apache.ignite.configuration.*;
import org.apache.ignite.spi.discovery.tcp.*;
import org.apache.ignite.spi.discovery.tcp.ipfinder.multicast.*;
import org.apache.ignite.spi.discovery.tcp.ipfinder.vm.*;

/**
 * This configuration was generated automatically.
 */
public class {{.Class}} {
{{- if .DataSources}}
    /** Secret properties loading. */
    private static final Properties props = new Properties();

    static {
        try (InputStream in = {{.Class}}.class.getClassLoader().getResourceAsStream("secret.properties")) {
            props.load(in);
        }
        catch (Exception e) {
            throw new RuntimeException("Failed to load secret.properties", e);
        }
    }
{{range .DataSources}}
    /**
     * Create data source for bean {{jstr .Bean}}.
     *
     * @return Configured data source.
     */
    public static DataSource {{.Method}}() {
        {{.Class}} ds = new {{.Class}}();

        ds.setURL(props.getProperty({{jstr (printf "%s.jdbc.url" .Bean)}}));
        ds.setUser(props.getProperty({{jstr (printf "%s.jdbc.username" .Bean)}}));
        ds.setPassword(props.getProperty({{jstr (printf "%s.jdbc.password" .Bean)}}));

        return ds;
    }
{{end}}
{{- end}}
    /**
     * Configure grid.
     *
     * @return Configured grid.
     * @throws Exception If failed to construct the configuration.
     */
    public static IgniteConfiguration createConfiguration() throws Exception {
        IgniteConfiguration cfg = new IgniteConfiguration();

        cfg.setGridName({{jstr .Name}});
{{- if .Client}}
        cfg.setClientMode(true);
{{- end}}

        TcpDiscoverySpi discovery = new TcpDiscoverySpi();
{{- if .Discovery.Multicast}}

        TcpDiscoveryMulticastIpFinder ipFinder = new TcpDiscoveryMulticastIpFinder();
        ipFinder.setMulticastGroup({{jstr .Discovery.MulticastGroup}});
{{- else}}

        TcpDiscoveryVmIpFinder ipFinder = new TcpDiscoveryVmIpFinder();
        ipFinder.setAddresses(Arrays.asList({{range $i, $a := .Discovery.Addresses}}{{if $i}}, {{end}}{{jstr $a}}{{end}}));
{{- end}}

        discovery.setIpFinder(ipFinder);

        cfg.setDiscoverySpi(discovery);
{{- if .Caches}}

        cfg.setCacheConfiguration({{range $i, $c := .Caches}}{{if $i}}, {{end}}{{$c.Method}}(){{end}});
{{- end}}

        return cfg;
    }
{{- $near := .Near}}
{{- $eviction := .NearEviction}}
{{- range .Caches}}

    /**
     * Create configuration for cache {{jstr .Name}}.
     *
     * @return Configured cache.
     * @throws Exception If failed to construct the configuration.
     */
    public static CacheConfiguration {{.Method}}() throws Exception {
        CacheConfiguration ccfg = new CacheConfiguration();

        ccfg.setName({{jstr .Name}});
{{- if .CacheMode}}
        ccfg.setCacheMode(CacheMode.{{.CacheMode}});
{{- end}}
{{- if .AtomicityMode}}
        ccfg.setAtomicityMode(CacheAtomicityMode.{{.AtomicityMode}});
{{- end}}
{{- if .Backups}}
        ccfg.setBackups({{.Backups}});
{{- end}}
{{- if $near}}

        NearCacheConfiguration nearCfg = new NearCacheConfiguration();
{{- if $near.NearStartSize}}
        nearCfg.setNearStartSize({{$near.NearStartSize}});
{{- end}}
{{- if $eviction}}
        {{$eviction}} evictionPlc = new {{$eviction}}();
{{- if $near.MaxSize}}
        evictionPlc.setMaxSize({{$near.MaxSize}});
{{- end}}
        nearCfg.setNearEvictionPolicy(evictionPlc);
{{- end}}
        ccfg.setNearConfiguration(nearCfg);
{{- end}}
{{- with .Store}}

        {{.Class}} storeFactory = new {{.Class}}();
{{- if .DataSourceMethod}}
        storeFactory.setDataSource({{.DataSourceMethod}}());
{{- end}}
{{- if and .Pojo .DialectClass}}
        storeFactory.setDialect(new {{.DialectClass}}());
{{- end}}
{{- if .Types}}

        JdbcType[] jdbcTypes = new JdbcType[{{len .Types}}];
{{- range $i, $t := .Types}}

        jdbcTypes[{{$i}}] = new JdbcType();
        jdbcTypes[{{$i}}].setCacheName({{jstr $t.Cache}});
        jdbcTypes[{{$i}}].setKeyType({{jstr $t.KeyType}});
        jdbcTypes[{{$i}}].setValueType({{jstr $t.ValueType}});
{{- if $t.Schema}}
        jdbcTypes[{{$i}}].setDatabaseSchema({{jstr $t.Schema}});
{{- end}}
        jdbcTypes[{{$i}}].setDatabaseTable({{jstr $t.Table}});
{{- if $t.KeyFields}}
        jdbcTypes[{{$i}}].setKeyFields(
{{- range $j, $f := $t.KeyFields}}{{if $j}},{{end}}
            new JdbcTypeField(java.sql.Types.{{sqlType $f.DatabaseType}}, {{jstr $f.DatabaseName}}, {{javaClass $f.JavaType}}, {{jstr $f.JavaName}})
{{- end}});
{{- end}}
{{- if $t.ValueFields}}
        jdbcTypes[{{$i}}].setValueFields(
{{- range $j, $f := $t.ValueFields}}{{if $j}},{{end}}
            new JdbcTypeField(java.sql.Types.{{sqlType $f.DatabaseType}}, {{jstr $f.DatabaseName}}, {{javaClass $f.JavaType}}, {{jstr $f.JavaName}})
{{- end}});
{{- end}}
{{- end}}

        storeFactory.setTypes(jdbcTypes);
{{- end}}

        ccfg.setCacheStoreFactory(storeFactory);
        ccfg.setReadThrough(true);
        ccfg.setWriteThrough(true);
{{- end}}

        return ccfg;
    }
{{- end}}
}
`

const startupTemplate = `{{if .Package}}package {{.Package}};

{{end}}import org.apache.ignite.Ignite;
import org.apache.ignite.IgniteException;
import org.apache.ignite.Ignition;
{{- if .Near}}
import org.apache.ignite.configuration.NearCacheConfiguration;
{{- end}}
{{- if .FactoryImport}}
import {{.FactoryImport}};
{{- end}}

/**
 * This class will start a node of cluster {{jstr .ClusterName}}.
 */
public class {{.Class}} {
    /**
     * Start up node with specified configuration.
     *
     * @param args Command line arguments, none required.
     * @throws Exception If failed.
     */
    public static void main(String[] args) throws Exception {
        Ignite ignite = Ignition.start({{.CfgExpr}});
{{- if .Near}}
{{- $near := .Near}}
{{- $eviction := .NearEviction}}
{{- range .Caches}}

        NearCacheConfiguration near{{javaIdentOf .}} = new NearCacheConfiguration();
{{- if $near.NearStartSize}}
        near{{javaIdentOf .}}.setNearStartSize({{$near.NearStartSize}});
{{- end}}
{{- if $eviction}}
        near{{javaIdentOf .}}.setNearEvictionPolicy(new {{$eviction}}({{if $near.MaxSize}}{{$near.MaxSize}}{{end}}));
{{- end}}

        ignite.getOrCreateNearCache({{jstr .}}, near{{javaIdentOf .}});
{{- end}}
{{- end}}
    }
}
`

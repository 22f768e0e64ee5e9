package generator

import (
	"fmt"
	"strconv"

	"gridcfg.io/console/models"
)

const (
	defaultVmAddress      = "127.0.0.1:47500..47510"
	defaultMulticastGroup = "228.10.10.157"
)

// clusterView is the template data shared by the XML and Java factory templates.
type clusterView struct {
	Name   string
	Client bool
	Near   *models.NearCacheConfig
	// NearEviction is the eviction policy class of the near cache, if any.
	NearEviction string
	Discovery    discoveryView
	Caches       []cacheView
	DataSources  []dataSourceView
}

type discoveryView struct {
	Multicast      bool
	MulticastGroup string
	Addresses      []string
}

type dataSourceView struct {
	Bean   string
	Class  string
	Method string
}

type cacheView struct {
	Name          string
	Method        string
	CacheMode     string
	AtomicityMode string
	Backups       int
	Store         *storeView
}

type storeView struct {
	Class            string
	DataSourceBean   string
	DataSourceMethod string
	DialectClass     string
	Pojo             bool
	Types            []jdbcTypeView
}

type jdbcTypeView struct {
	Cache       string
	KeyType     string
	ValueType   string
	Schema      string
	Table       string
	KeyFields   []models.Field
	ValueFields []models.Field
}

// newClusterView validates a cluster and flattens it for the templates.
// A non-nil near cache config renders the client variant.
func newClusterView(cluster *models.Cluster, nearCfg *models.NearCacheConfig) (*clusterView, error) {
	if cluster == nil {
		return nil, fmt.Errorf("cluster is nil")
	}

	view := &clusterView{
		Name:   cluster.Name,
		Client: nearCfg != nil,
		Near:   nearCfg,
	}

	if nearCfg != nil && nearCfg.EvictionPolicy != "" {
		class, ok := evictionPolicies[nearCfg.EvictionPolicy]
		if !ok {
			return nil, fmt.Errorf("unsupported eviction policy %q", nearCfg.EvictionPolicy)
		}
		view.NearEviction = class
	}

	switch cluster.Discovery.Kind {
	case "", "Vm":
		view.Discovery.Addresses = cluster.Discovery.Addresses
		if len(view.Discovery.Addresses) == 0 {
			view.Discovery.Addresses = []string{defaultVmAddress}
		}
	case "Multicast":
		view.Discovery.Multicast = true
		view.Discovery.MulticastGroup = cluster.Discovery.MulticastGroup
		if view.Discovery.MulticastGroup == "" {
			view.Discovery.MulticastGroup = defaultMulticastGroup
		}
	default:
		return nil, fmt.Errorf("unsupported discovery kind %q", cluster.Discovery.Kind)
	}

	dataSources := make(map[string]bool)
	methods := make(map[string]bool)

	for _, cache := range cluster.Caches {
		cv := cacheView{
			Name:          cache.Name,
			CacheMode:     cache.CacheMode,
			AtomicityMode: cache.AtomicityMode,
			Backups:       cache.Backups,
		}

		method := "cache" + javaIdent(cache.Name)
		for i := 2; methods[method]; i++ {
			method = "cache" + javaIdent(cache.Name) + strconv.Itoa(i)
		}
		methods[method] = true
		cv.Method = method

		if cache.StoreFactory != nil {
			store, err := newStoreView(cache)
			if err != nil {
				return nil, fmt.Errorf("cache %q: %w", cache.Name, err)
			}
			cv.Store = store

			if store.DataSourceBean != "" && !dataSources[store.DataSourceBean] {
				dataSources[store.DataSourceBean] = true
				view.DataSources = append(view.DataSources, dataSourceView{
					Bean:   store.DataSourceBean,
					Class:  dialects[cache.StoreFactory.Dialect].DataSource,
					Method: store.DataSourceMethod,
				})
			}
		}

		view.Caches = append(view.Caches, cv)
	}

	return view, nil
}

func newStoreView(cache models.CacheConfig) (*storeView, error) {
	factory := cache.StoreFactory

	class, ok := storeFactoryClasses[factory.Kind]
	if !ok {
		return nil, fmt.Errorf("unsupported store factory %q", factory.Kind)
	}

	store := &storeView{
		Class: class,
		Pojo:  factory.Kind == models.StoreFactoryJdbcPojo,
	}

	if factory.Dialect != "" {
		d, ok := dialects[factory.Dialect]
		if !ok {
			return nil, fmt.Errorf("unsupported dialect %q", factory.Dialect)
		}
		store.DialectClass = d.Class
		if factory.UsesJdbc() {
			store.DataSourceBean = factory.DataSourceBean
			store.DataSourceMethod = "dataSource" + javaIdent(factory.DataSourceBean)
		}
	}

	if !store.Pojo {
		return store, nil
	}

	for _, meta := range cache.Metadatas {
		if err := validType(meta.KeyType); err != nil {
			return nil, err
		}
		if err := validType(meta.ValueType); err != nil {
			return nil, err
		}
		store.Types = append(store.Types, jdbcTypeView{
			Cache:       cache.Name,
			KeyType:     meta.KeyType,
			ValueType:   meta.ValueType,
			Schema:      meta.DatabaseSchema,
			Table:       meta.DatabaseTable,
			KeyFields:   meta.KeyFields,
			ValueFields: meta.ValueFields,
		})
	}

	return store, nil
}

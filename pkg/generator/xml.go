package generator

import "gridcfg.io/console/models"

// ClusterXML renders the Spring XML configuration of a cluster.
// A non-nil near cache config renders the client variant.
func (g *Generator) ClusterXML(cluster *models.Cluster, nearCfg *models.NearCacheConfig) (string, error) {
	view, err := newClusterView(cluster, nearCfg)
	if err != nil {
		return "", err
	}
	return g.render("xml", view)
}

const xmlTemplate = `<?xml version="1.0" encoding="UTF-8"?>

<!-- This file was generated automatically. -->
<beans xmlns="http://www.springframework.org/schema/beans"
       xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
       xmlns:util="http://www.springframework.org/schema/util"
       xsi:schemaLocation="http://www.springframework.org/schema/beans
                           http://www.springframework.org/schema/beans/spring-beans.xsd
                           http://www.springframework.org/schema/util
                           http://www.springframework.org/schema/util/spring-util.xsd">
{{- if .DataSources}}
    <!-- Load external properties file. -->
    <bean id="placeholderConfig" class="org.springframework.beans.factory.config.PropertyPlaceholderConfigurer">
        <property name="location" value="classpath:secret.properties"/>
    </bean>
{{range .DataSources}}
    <!-- Data source beans will be initialized from external properties file. -->
    <bean id="{{esc .Bean}}" class="{{.Class}}">
        <property name="URL" value="{{esc (placeholder .Bean "url")}}"/>
        <property name="user" value="{{esc (placeholder .Bean "username")}}"/>
        <property name="password" value="{{esc (placeholder .Bean "password")}}"/>
    </bean>
{{end}}
{{- end}}
    <bean class="org.apache.ignite.configuration.IgniteConfiguration">
        <property name="gridName" value="{{esc .Name}}"/>
{{- if .Client}}
        <property name="clientMode" value="true"/>
{{- end}}

        <property name="discoverySpi">
            <bean class="org.apache.ignite.spi.discovery.tcp.TcpDiscoverySpi">
                <property name="ipFinder">
{{- if .Discovery.Multicast}}
                    <bean class="org.apache.ignite.spi.discovery.tcp.ipfinder.multicast.TcpDiscoveryMulticastIpFinder">
                        <property name="multicastGroup" value="{{esc .Discovery.MulticastGroup}}"/>
                    </bean>
{{- else}}
                    <bean class="org.apache.ignite.spi.discovery.tcp.ipfinder.vm.TcpDiscoveryVmIpFinder">
                        <property name="addresses">
                            <list>
{{- range .Discovery.Addresses}}
                                <value>{{esc .}}</value>
{{- end}}
                            </list>
                        </property>
                    </bean>
{{- end}}
                </property>
            </bean>
        </property>
{{- if .Caches}}

        <property name="cacheConfiguration">
            <list>
{{- $near := .Near}}
{{- range .Caches}}
                <bean class="org.apache.ignite.configuration.CacheConfiguration">
                    <property name="name" value="{{esc .Name}}"/>
{{- if .CacheMode}}
                    <property name="cacheMode" value="{{esc .CacheMode}}"/>
{{- end}}
{{- if .AtomicityMode}}
                    <property name="atomicityMode" value="{{esc .AtomicityMode}}"/>
{{- end}}
{{- if .Backups}}
                    <property name="backups" value="{{.Backups}}"/>
{{- end}}
{{- if $near}}
                    <property name="nearConfiguration">
                        <bean class="org.apache.ignite.configuration.NearCacheConfiguration">
{{- if $near.NearStartSize}}
                            <property name="nearStartSize" value="{{$near.NearStartSize}}"/>
{{- end}}
{{- if $.NearEviction}}
                            <property name="nearEvictionPolicy">
                                <bean class="{{$.NearEviction}}">
{{- if $near.MaxSize}}
                                    <property name="maxSize" value="{{$near.MaxSize}}"/>
{{- end}}
                                </bean>
                            </property>
{{- end}}
                        </bean>
                    </property>
{{- end}}
{{- with .Store}}
                    <property name="cacheStoreFactory">
                        <bean class="{{.Class}}">
{{- if .DataSourceBean}}
                            <property name="dataSourceBean" value="{{esc .DataSourceBean}}"/>
{{- end}}
{{- if and .Pojo .DialectClass}}
                            <property name="dialect">
                                <bean class="{{.DialectClass}}"/>
                            </property>
{{- end}}
{{- if .Types}}
                            <property name="types">
                                <list>
{{- range .Types}}
                                    <bean class="org.apache.ignite.cache.store.jdbc.JdbcType">
                                        <property name="cacheName" value="{{esc .Cache}}"/>
                                        <property name="keyType" value="{{esc .KeyType}}"/>
                                        <property name="valueType" value="{{esc .ValueType}}"/>
{{- if .Schema}}
                                        <property name="databaseSchema" value="{{esc .Schema}}"/>
{{- end}}
                                        <property name="databaseTable" value="{{esc .Table}}"/>
{{- if .KeyFields}}
                                        <property name="keyFields">
                                            <list>
{{- range .KeyFields}}
                                                <bean class="org.apache.ignite.cache.store.jdbc.JdbcTypeField">
                                                    <property name="databaseFieldType">
                                                        <util:constant static-field="java.sql.Types.{{sqlType .DatabaseType}}"/>
                                                    </property>
                                                    <property name="databaseFieldName" value="{{esc .DatabaseName}}"/>
                                                    <property name="javaFieldType" value="{{esc (boxed .JavaType)}}"/>
                                                    <property name="javaFieldName" value="{{esc .JavaName}}"/>
                                                </bean>
{{- end}}
                                            </list>
                                        </property>
{{- end}}
{{- if .ValueFields}}
                                        <property name="valueFields">
                                            <list>
{{- range .ValueFields}}
                                                <bean class="org.apache.ignite.cache.store.jdbc.JdbcTypeField">
                                                    <property name="databaseFieldType">
                                                        <util:constant static-field="java.sql.Types.{{sqlType .DatabaseType}}"/>
                                                    </property>
                                                    <property name="databaseFieldName" value="{{esc .DatabaseName}}"/>
                                                    <property name="javaFieldType" value="{{esc (boxed .JavaType)}}"/>
                                                    <property name="javaFieldName" value="{{esc .JavaName}}"/>
                                                </bean>
{{- end}}
                                            </list>
                                        </property>
{{- end}}
                                    </bean>
{{- end}}
                                </list>
                            </property>
{{- end}}
                        </bean>
                    </property>
                    <property name="readThrough" value="true"/>
                    <property name="writeThrough" value="true"/>
{{- end}}
                </bean>
{{- end}}
            </list>
        </property>
{{- end}}
    </bean>
</beans>
`

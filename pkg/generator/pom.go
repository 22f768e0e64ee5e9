package generator

import (
	"fmt"

	"gridcfg.io/console/models"
)

type pomView struct {
	ArtifactID string
	Version    string
	Hibernate  bool
	Drivers    []mavenDependency
	// Proprietary lists dialects whose drivers are copied into jdbc-drivers/.
	Proprietary []string
}

// POM renders the Maven project descriptor. Drivers available on Maven
// Central become dependencies; proprietary drivers are picked up from the
// jdbc-drivers directory.
func (g *Generator) POM(cluster *models.Cluster, platformVersion string) (string, error) {
	if cluster == nil {
		return "", fmt.Errorf("cluster is nil")
	}
	if platformVersion == "" {
		return "", fmt.Errorf("platform version is empty")
	}

	view := pomView{
		ArtifactID: artifactID(cluster.Name),
		Version:    platformVersion,
	}

	seen := make(map[string]bool)
	for _, cache := range cluster.Caches {
		factory := cache.StoreFactory
		if factory == nil {
			continue
		}
		if factory.Kind == models.StoreFactoryHibernateBlob {
			view.Hibernate = true
		}
		if factory.Dialect == "" || seen[factory.Dialect] {
			continue
		}
		d, ok := dialects[factory.Dialect]
		if !ok {
			return "", fmt.Errorf("cache %q: unsupported dialect %q", cache.Name, factory.Dialect)
		}
		seen[factory.Dialect] = true
		if d.Driver != nil {
			view.Drivers = append(view.Drivers, *d.Driver)
		} else {
			view.Proprietary = append(view.Proprietary, factory.Dialect)
		}
	}

	return g.render("pom", view)
}

const pomTemplate = `<?xml version="1.0" encoding="UTF-8"?>

<!-- This file was generated automatically. -->
<project xmlns="http://maven.apache.org/POM/4.0.0"
         xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
         xsi:schemaLocation="http://maven.apache.org/POM/4.0.0 http://maven.apache.org/xsd/maven-4.0.0.xsd">
    <modelVersion>4.0.0</modelVersion>

    <groupId>org.apache.ignite</groupId>
    <artifactId>{{esc .ArtifactID}}</artifactId>
    <version>0.1</version>

    <properties>
        <ignite.version>{{esc .Version}}</ignite.version>
    </properties>

    <repositories>
        <repository>
            <id>GridGain External Repository</id>
            <url>http://www.gridgainsystems.com/nexus/content/repositories/external</url>
        </repository>
    </repositories>

    <dependencies>
        <dependency>
            <groupId>org.apache.ignite</groupId>
            <artifactId>ignite-core</artifactId>
            <version>${ignite.version}</version>
        </dependency>

        <dependency>
            <groupId>org.apache.ignite</groupId>
            <artifactId>ignite-spring</artifactId>
            <version>${ignite.version}</version>
        </dependency>
{{- if .Hibernate}}

        <dependency>
            <groupId>org.apache.ignite</groupId>
            <artifactId>ignite-hibernate</artifactId>
            <version>${ignite.version}</version>
        </dependency>
{{- end}}
{{- range .Drivers}}

        <dependency>
            <groupId>{{esc .GroupID}}</groupId>
            <artifactId>{{esc .ArtifactID}}</artifactId>
            <version>{{esc .Version}}</version>
        </dependency>
{{- end}}
    </dependencies>

    <build>
        <resources>
            <resource>
                <directory>src/main/java</directory>
                <excludes>
                    <exclude>**/*.java</exclude>
                </excludes>
            </resource>
            <resource>
                <directory>src/main/resources</directory>
            </resource>
        </resources>

        <plugins>
{{- if .Proprietary}}
            <!-- Proprietary drivers for {{range $i, $d := .Proprietary}}{{if $i}}, {{end}}{{esc $d}}{{end}} are copied from jdbc-drivers. -->
            <plugin>
                <artifactId>maven-dependency-plugin</artifactId>
                <executions>
                    <execution>
                        <id>copy-libs</id>
                        <phase>test-compile</phase>
                        <goals>
                            <goal>copy-dependencies</goal>
                        </goals>
                        <configuration>
                            <excludeGroupIds>org.apache.ignite</excludeGroupIds>
                            <outputDirectory>target/libs</outputDirectory>
                            <includeScope>compile</includeScope>
                            <excludeTransitive>true</excludeTransitive>
                        </configuration>
                    </execution>
                </executions>
            </plugin>
{{- end}}
            <plugin>
                <groupId>org.apache.maven.plugins</groupId>
                <artifactId>maven-compiler-plugin</artifactId>
                <version>3.1</version>
                <configuration>
                    <source>1.7</source>
                    <target>1.7</target>
                </configuration>
            </plugin>
        </plugins>
    </build>
</project>
`

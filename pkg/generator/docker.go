package generator

import (
	"fmt"

	"gridcfg.io/console/models"
)

type dockerView struct {
	Name    string
	Version string
}

// Docker renders a Dockerfile that builds the bundle project and starts a
// server node with the generated Spring configuration.
func (g *Generator) Docker(cluster *models.Cluster) (string, error) {
	if cluster == nil {
		return "", fmt.Errorf("cluster is nil")
	}
	return g.render("docker", dockerView{Name: cluster.Name, Version: g.platformVersion})
}

const dockerTemplate = `# Start from an Ignite image.
FROM apacheignite/ignite:{{.Version}}

# Set config uri for node.
ENV CONFIG_URI config/{{.Name}}-server.xml

# Copy ignite-http-rest from optional.
ENV OPTION_LIBS ignite-rest-http

# Update packages and install maven.
RUN \
   apt-get update &&\
   apt-get install -y maven

# Append project to container.
ADD . {{.Name}}

# Build project in container.
RUN mvn -f {{.Name}}/pom.xml clean package -DskipTests

# Copy project jars to node classpath.
RUN mkdir $IGNITE_HOME/libs/{{.Name}} && \
   find {{.Name}}/target -name "*.jar" -type f -exec cp {} $IGNITE_HOME/libs/{{.Name}} \; && \
   cp -r {{.Name}}/config/* $IGNITE_HOME/config
`

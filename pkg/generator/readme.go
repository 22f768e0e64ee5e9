package generator

// Readme renders the general README of a bundle.
func (g *Generator) Readme() (string, error) {
	return g.render("readme", nil)
}

// ReadmeJdbc renders the README placed into the jdbc-drivers directory.
func (g *Generator) ReadmeJdbc() (string, error) {
	return g.render("readmeJdbc", nil)
}

const readmeTemplate = `Content of this folder was generated by the cluster configuration console.

Project structure:
    /config - this folder contains client and server XML configurations.
    /jdbc-drivers - this folder should contain proprietary JDBC drivers.
    /src - this folder contains generated java code.
    /src/main/java/factory - this folder contains generated java classes with cluster configuration from code.
    /src/main/java/startup - this folder contains generated java classes with server and client nodes startup code.
    /src/main/java/[model] - this optional folder will be named as package name for your POJO classes and contain generated POJO files.
    /src/main/resources - this optional folder contains generated secret.properties file with security sensitive information if any.
    Dockerfile - sample Docker file. With this file you could package Ignite deployment with all required infrastructure.
    pom.xml - generated Maven project description, could be used to open generated project in IDE or build with Maven.

Note that generated POM.XML contains Maven dependencies for all JDBC drivers used in project configuration.

To build this project you should have installed Maven and JDK 7 or newer.
Run "mvn clean package" in the project root to build it.
`

const readmeJdbcTemplate = `Proprietary JDBC drivers for databases like Oracle, IBM DB2, Microsoft SQL Server are not available on Maven Central repository.
Drivers should be downloaded manually and copied to this folder.
`

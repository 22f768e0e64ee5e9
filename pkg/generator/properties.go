package generator

import "gridcfg.io/console/models"

// Properties renders the secret.properties file with one credentials triple
// per distinct JDBC data source bean. Clusters without JDBC stores yield "".
func (g *Generator) Properties(cluster *models.Cluster) (string, error) {
	view, err := newClusterView(cluster, nil)
	if err != nil {
		return "", err
	}
	if len(view.DataSources) == 0 {
		return "", nil
	}
	return g.render("properties", view)
}

const propertiesTemplate = `{{range $i, $ds := .DataSources}}{{if $i}}
{{end}}{{$ds.Bean}}.jdbc.url=YOUR_JDBC_URL
{{$ds.Bean}}.jdbc.username=YOUR_USER_NAME
{{$ds.Bean}}.jdbc.password=YOUR_PASSWORD
{{end}}`

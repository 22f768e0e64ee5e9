package generator

import (
	"fmt"

	"gridcfg.io/console/models"
)

type pojoView struct {
	Package string
	Class   string
	Fields  []models.Field
}

// Pojos renders the key and value classes of every POJO store type mapping,
// in cache and mapping order. Key types that are Java builtins or declare no
// fields get no generated class.
func (g *Generator) Pojos(cluster *models.Cluster) ([]models.PojoMetadata, error) {
	if cluster == nil {
		return nil, fmt.Errorf("cluster is nil")
	}

	var metas []models.PojoMetadata
	for _, cache := range cluster.Caches {
		if cache.StoreFactory == nil || cache.StoreFactory.Kind != models.StoreFactoryJdbcPojo {
			continue
		}

		for _, meta := range cache.Metadatas {
			pm := models.PojoMetadata{KeyType: meta.KeyType, ValueType: meta.ValueType}

			if !isBuiltin(meta.KeyType) && len(meta.KeyFields) > 0 {
				src, err := g.pojo(meta.KeyType, meta.KeyFields)
				if err != nil {
					return nil, fmt.Errorf("cache %q: %w", cache.Name, err)
				}
				pm.KeyClass = src
			}

			if isBuiltin(meta.ValueType) {
				return nil, fmt.Errorf("cache %q: value type %q cannot be generated", cache.Name, meta.ValueType)
			}
			src, err := g.pojo(meta.ValueType, meta.ValueFields)
			if err != nil {
				return nil, fmt.Errorf("cache %q: %w", cache.Name, err)
			}
			pm.ValueClass = src

			metas = append(metas, pm)
		}
	}

	return metas, nil
}

func (g *Generator) pojo(typeName string, fields []models.Field) (string, error) {
	if err := validType(typeName); err != nil {
		return "", err
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !javaIdentRegex.MatchString(f.JavaName) {
			return "", fmt.Errorf("%s: invalid field name %q", typeName, f.JavaName)
		}
		if seen[f.JavaName] {
			return "", fmt.Errorf("%s: duplicate field %q", typeName, f.JavaName)
		}
		seen[f.JavaName] = true
		if err := validType(f.JavaType); err != nil {
			return "", fmt.Errorf("%s.%s: %w", typeName, f.JavaName, err)
		}
	}

	pkg, class := splitType(typeName)
	return g.render("pojo", pojoView{Package: pkg, Class: class, Fields: fields})
}

const pojoTemplate = `{{if .Package}}package {{.Package}};

{{end}}import java.io.Serializable;

/**
 * {{.Class}} definition.
 *
 * This file was generated automatically.
 */
public class {{.Class}} implements Serializable {
    /** */
    private static final long serialVersionUID = 0L;
{{range .Fields}}
    /** Value for {{.JavaName}}. */
    private {{.JavaType}} {{.JavaName}};
{{end}}
    /**
     * Empty constructor.
     */
    public {{.Class}}() {
        // No-op.
    }
{{- range .Fields}}

    /**
     * Gets {{.JavaName}}.
     *
     * @return Value for {{.JavaName}}.
     */
    public {{.JavaType}} get{{cap .JavaName}}() {
        return {{.JavaName}};
    }

    /**
     * Sets {{.JavaName}}.
     *
     * @param {{.JavaName}} New value for {{.JavaName}}.
     */
    public void set{{cap .JavaName}}({{.JavaType}} {{.JavaName}}) {
        this.{{.JavaName}} = {{.JavaName}};
    }
{{- end}}

    /** {@inheritDoc} */
    @Override public boolean equals(Object o) {
        if (this == o)
            return true;

        if (!(o instanceof {{.Class}}))
            return false;
{{- if .Fields}}

        {{.Class}} that = ({{.Class}})o;
{{- range .Fields}}
{{- if isPrimitive .JavaType}}

        if ({{.JavaName}} != that.{{.JavaName}})
            return false;
{{- else}}

        if ({{.JavaName}} != null ? !{{.JavaName}}.equals(that.{{.JavaName}}) : that.{{.JavaName}} != null)
            return false;
{{- end}}
{{- end}}
{{- end}}

        return true;
    }

    /** {@inheritDoc} */
    @Override public int hashCode() {
        int res = 0;
{{- range .Fields}}
{{- if isPrimitive .JavaType}}

        res = 31 * res + {{boxed .JavaType}}.valueOf({{.JavaName}}).hashCode();
{{- else}}

        res = 31 * res + ({{.JavaName}} != null ? {{.JavaName}}.hashCode() : 0);
{{- end}}
{{- end}}

        return res;
    }

    /** {@inheritDoc} */
    @Override public String toString() {
        return "{{.Class}} [" +
{{- range $i, $f := .Fields}}
            "{{if $i}}, {{end}}{{$f.JavaName}}=" + {{$f.JavaName}} +
{{- end}}
            "]";
    }
}
`

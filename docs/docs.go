// Package docs registers the OpenAPI document with swag so that echo-swagger
// can serve it under /swagger/.
package docs

import (
	"sync"

	"fooddispatch/internal/generated/servers"

	"github.com/swaggo/swag"
)

type openAPIDoc struct {
	once sync.Once
	json string
}

// ReadDoc renders the embedded document as JSON once and caches it.
func (d *openAPIDoc) ReadDoc() string {
	d.once.Do(func() {
		spec, err := servers.GetSwagger()
		if err != nil {
			d.json = "{}"
			return
		}
		raw, err := spec.MarshalJSON()
		if err != nil {
			d.json = "{}"
			return
		}
		d.json = string(raw)
	})
	return d.json
}

func init() {
	swag.Register(swag.Name, &openAPIDoc{})
}

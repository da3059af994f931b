package certification

import "strings"

// ItemLink par (id externo, id local) de una línea certificada.
type ItemLink struct {
	ExternalID string
	LocalID    string
}

// ZipItems empareja por posición los ids devueltos por la FNE con las líneas
// enviadas. Si los tamaños difieren o algún id externo llega vacío no se
// adivina nada y se devuelve vacío.
// La FNE no devuelve una referencia propia de cada línea, así que el
// emparejamiento depende de que conserve el orden.
func ZipItems(externalIDs, localIDs []string) []ItemLink {
	if len(externalIDs) != len(localIDs) || len(localIDs) == 0 {
		return nil
	}
	links := make([]ItemLink, len(localIDs))
	for i := range localIDs {
		links[i] = ItemLink{ExternalID: strings.TrimSpace(externalIDs[i]), LocalID: localIDs[i]}
	}
	if !Reconciled(links) {
		return nil
	}
	return links
}

// Reconciled indica si hay pares y todos tienen id externo e id local.
func Reconciled(links []ItemLink) bool {
	if len(links) == 0 {
		return false
	}
	for _, l := range links {
		if l.ExternalID == "" || l.LocalID == "" {
			return false
		}
	}
	return true
}

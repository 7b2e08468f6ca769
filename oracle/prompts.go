package oracle

import "fmt"

// Default character limits applied to document text before it is embedded
// in a prompt.
const (
	DefaultMaxBailChars    = 15000
	DefaultMaxChargesChars = 12000
)

// truncate cuts text to at most limit bytes. Limits are large enough that
// cutting inside a UTF-8 sequence is not worth guarding against exactly;
// the trailing marker keeps the cut visible to the generator.
func truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	return text[:limit] + "\n...(tronqué)"
}

// ChargesPrompt asks the generator to extract billed charge line items
// from statement text. The expected JSON shape is part of the prompt.
func ChargesPrompt(statementText string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChargesChars
	}
	return fmt.Sprintf(`## EXTRACTION PRÉCISE DES CHARGES LOCATIVES

Le document suivant est un relevé de charges locatives refacturées au preneur.
Le document est probablement un tableau formaté sous forme de texte.

%s

## INSTRUCTIONS

1. Analyse ce texte pour en extraire les charges facturées.
2. Cherche les motifs qui ressemblent à "[NOM DE LA CHARGE] ... [MONTANT]".
3. Identifie le nom exact de chaque charge et son montant facturé.
4. Si tu trouves plusieurs montants pour une même charge, prends le montant final ou TTC.

IMPORTANT:
- Si tu détectes une structure de tableau, analyse-la ligne par ligne.
- CHAQUE entrée doit avoir un montant numérique valide.
- Les montants doivent être des nombres décimaux sans symbole € ni autres caractères.

Réponds uniquement avec ce JSON, sans markdown:
{"charges": [{"poste": "Nom exact du poste", "montant": 0.0}]}`,
		truncate(statementText, maxChars))
}

// CategoriesPrompt asks the generator for the charge categories a lease
// explicitly allows passing through to the tenant.
func CategoriesPrompt(bailText string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxBailChars
	}
	return fmt.Sprintf(`## Tâche d'extraction précise
Tu es un analyste juridique spécialisé dans les baux commerciaux.

Ta seule tâche est d'extraire la liste précise des charges qui sont explicitement
mentionnées comme refacturables au locataire dans le bail commercial, en détaillant
les différentes catégories que tu identifies.

Voici les clauses du bail concernant les charges:
%s

## Instructions précises
1. Identifie uniquement les postes et catégories de charges expressément mentionnés comme refacturables au locataire.
2. Liste chacun de ces postes, sans t'arrêter à une catégorie généraliste comme "charges locatives".
3. N'invente aucun poste de charge qui ne serait pas explicitement mentionné.
4. Si une charge est ambiguë ou implicite, indique-le par une certitude plus faible.

Réponds uniquement avec ce JSON, sans markdown:
[{"categorie": "Catégorie exacte mentionnée dans le bail", "description": "Description exacte de la charge", "base_legale": "Article ou clause du bail", "certitude": "élevée|moyenne|faible"}]

Si aucune charge refacturable n'est mentionnée dans le bail, retourne un tableau vide.`,
		truncate(bailText, maxChars))
}

package features

// skillAliasRoots collapses common skill-name variants to one canonical
// root for skillDiversity. Small and static by design: it exists to stop
// "JS"/"Javascript"/"Js" from inflating diversity, not to be exhaustive.
var skillAliasRoots = map[string]string{
	"js":            "javascript",
	"javascript":    "javascript",
	"ts":            "typescript",
	"typescript":    "typescript",
	"py":            "python",
	"python":        "python",
	"golang":        "go",
	"go":            "go",
	"reactjs":       "react",
	"react.js":      "react",
	"react":         "react",
	"nodejs":        "node",
	"node.js":       "node",
	"node":          "node",
	"postgres":      "postgresql",
	"postgresql":    "postgresql",
	"k8s":           "kubernetes",
	"kubernetes":    "kubernetes",
	"ml":            "machine learning",
	"machine learning": "machine learning",
	"tensorflow":    "tensorflow",
	"tf":            "tensorflow",
	"sklearn":       "scikit-learn",
	"scikit-learn":  "scikit-learn",
	"c++":           "c++",
	"cpp":           "c++",
	"c#":            "c#",
	"csharp":        "c#",
	"aws":           "aws",
	"amazon web services": "aws",
	"gcp":           "gcp",
	"google cloud":  "gcp",
}

package jobmatch

// requiredSkillVocabulary is the fixed keyword set used to extract a
// required-skills list from free-text JD bodies when a job row carries no
// explicit skills list. Grouped by category: languages, frameworks &
// libraries, databases, clouds & infra, tools & practices, data & ml, and
// mobile & other.
var requiredSkillVocabulary = []string{
	// languages
	"Python", "JavaScript", "TypeScript", "Java", "Go", "C++", "C#", "Ruby",
	"PHP", "Swift", "Kotlin", "Rust", "Scala", "R", "MATLAB", "Perl",

	// frameworks & libraries
	"React", "Angular", "Vue", "Django", "Flask", "FastAPI", "Spring",
	"Spring Boot", "Express", "Node.js", "Next.js", "Ruby on Rails",
	"TensorFlow", "PyTorch", "Scikit-learn", "Keras", "Pandas", "NumPy",
	"jQuery", "Bootstrap", "Tailwind CSS", "Laravel", ".NET",

	// databases
	"PostgreSQL", "MySQL", "MongoDB", "Redis", "Cassandra", "DynamoDB",
	"Elasticsearch", "SQLite", "Oracle", "SQL Server", "Neo4j", "MariaDB",

	// clouds & infra
	"AWS", "Azure", "GCP", "Google Cloud", "Kubernetes", "Docker",
	"Terraform", "Ansible", "Jenkins", "CircleCI", "GitHub Actions",
	"Cloudflare", "Heroku",

	// tools & practices
	"Git", "Linux", "Bash", "REST", "GraphQL", "gRPC", "Microservices",
	"CI/CD", "Agile", "Scrum", "JIRA", "Figma", "Postman", "Kafka",
	"RabbitMQ", "Nginx", "Apache",

	// data & ml
	"Machine Learning", "Deep Learning", "Data Analysis", "Data Science",
	"Statistics", "NLP", "Computer Vision", "SQL", "Spark", "Hadoop",
	"Tableau", "Power BI", "ETL",

	// mobile & other
	"Android", "iOS", "React Native", "Flutter", "Unity", "Selenium",
	"JUnit", "Cypress", "WebSockets", "OAuth",
}

// Vocabulary returns the required-skill keyword vocabulary.
func Vocabulary() []string {
	return requiredSkillVocabulary
}

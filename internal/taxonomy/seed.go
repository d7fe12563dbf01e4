package taxonomy

import "github.com/jonathan/skill-taxonomy/internal/types"

// CategoryDef describes a known category
type CategoryDef struct {
	Key         string `json:"key" toml:"key"`
	Name        string `json:"name" toml:"name"`
	Description string `json:"description" toml:"description"`
}

// DefaultCategories returns the built-in category definitions in display order
func DefaultCategories() []CategoryDef {
	return []CategoryDef{
		{Key: "programming_languages", Name: "Programming Languages", Description: "Programming languages and scripting languages"},
		{Key: "frameworks", Name: "Frameworks & Libraries", Description: "Software frameworks and libraries"},
		{Key: "databases", Name: "Databases", Description: "Database systems and technologies"},
		{Key: "cloud_platforms", Name: "Cloud Platforms", Description: "Cloud computing platforms and services"},
		{Key: "devops", Name: "DevOps & Infrastructure", Description: "DevOps tools and infrastructure technologies"},
		{Key: "data_science", Name: "Data Science & Analytics", Description: "Data science, machine learning, and analytics tools"},
		{Key: "web_technologies", Name: "Web Technologies", Description: "Web development technologies and standards"},
		{Key: "mobile_development", Name: "Mobile Development", Description: "Mobile application development"},
		{Key: "soft_skills", Name: "Soft Skills", Description: "Interpersonal and professional skills"},
		{Key: "business_skills", Name: "Business & Management", Description: "Business analysis and management skills"},
	}
}

func seed(category, name, description, level string, aliases ...string) types.CanonicalSkill {
	return types.CanonicalSkill{
		Name:        name,
		Category:    category,
		Aliases:     aliases,
		Description: description,
		Level:       level,
	}
}

// DefaultSkills returns the built-in seed taxonomy
func DefaultSkills() []types.CanonicalSkill {
	const (
		lang   = "programming_languages"
		fw     = "frameworks"
		db     = "databases"
		cloud  = "cloud_platforms"
		devops = "devops"
	)
	return []types.CanonicalSkill{
		seed(lang, "Python", "High-level programming language", "popular", "python", "py", "Python3", "Python 3"),
		seed(lang, "JavaScript", "Programming language for web development", "essential", "javascript", "js", "ECMAScript"),
		seed(lang, "TypeScript", "Typed superset of JavaScript", "popular", "typescript", "ts"),
		seed(lang, "Java", "Object-oriented programming language", "popular", "java", "JVM"),
		seed(lang, "C++", "General-purpose programming language", "advanced", "c++", "cpp", "CPlusPlus"),
		seed(lang, "C#", "Multi-paradigm programming language", "popular", "c#", "csharp", "C Sharp"),
		seed(lang, "Go", "Compiled programming language", "emerging", "go", "golang"),
		seed(lang, "Rust", "Systems programming language", "emerging", "rust"),
		seed(lang, "PHP", "Server-side scripting language", "popular", "php"),
		seed(lang, "Ruby", "Dynamic programming language", "popular", "ruby", "rb"),

		seed(fw, "React", "JavaScript library for building user interfaces", "essential", "react", "React.js", "ReactJS"),
		seed(fw, "Angular", "TypeScript-based web application framework", "popular", "angular", "AngularJS", "Angular 2+"),
		seed(fw, "Vue.js", "Progressive JavaScript framework", "popular", "vue", "vue.js"),
		seed(fw, "Django", "High-level Python web framework", "popular", "django"),
		seed(fw, "Flask", "Lightweight Python web framework", "popular", "flask"),
		seed(fw, "FastAPI", "Modern Python web framework", "emerging", "fastapi", "Fast API"),
		seed(fw, "Express.js", "Node.js web application framework", "popular", "express", "express.js"),
		seed(fw, "Spring Boot", "Java framework for building microservices", "popular", "spring boot", "springboot"),
		seed(fw, ".NET Core", "Cross-platform .NET framework", "popular", ".net core", "dotnet core", ".NET"),

		seed(db, "PostgreSQL", "Advanced open source relational database", "popular", "postgres", "postgresql", "pg"),
		seed(db, "MySQL", "Open source relational database", "popular", "mysql", "my sql"),
		seed(db, "MongoDB", "NoSQL document database", "popular", "mongodb", "mongo"),
		seed(db, "Redis", "In-memory data structure store", "popular", "redis"),
		seed(db, "SQLite", "Self-contained SQL database engine", "popular", "sqlite"),
		seed(db, "Oracle", "Multi-model database management system", "enterprise", "oracle database", "oracle db"),
		seed(db, "SQL Server", "Relational database management system", "enterprise", "sql server", "microsoft sql server", "mssql"),

		seed(cloud, "Amazon Web Services", "Cloud computing platform", "essential", "aws", "Amazon Web Services"),
		seed(cloud, "Microsoft Azure", "Cloud computing platform", "popular", "azure", "Microsoft Azure"),
		seed(cloud, "Google Cloud Platform", "Cloud computing platform", "popular", "gcp", "Google Cloud"),
		seed(cloud, "Heroku", "Platform as a Service", "popular", "heroku"),
		seed(cloud, "DigitalOcean", "Cloud infrastructure provider", "emerging", "digital ocean", "digitalocean"),

		seed(devops, "Docker", "Containerization platform", "essential", "docker"),
		seed(devops, "Kubernetes", "Container orchestration system", "popular", "kubernetes", "k8s"),
		seed(devops, "Jenkins", "Automation server", "popular", "jenkins"),
		seed(devops, "GitLab CI", "Continuous integration service", "popular", "gitlab ci", "gitlab-ci"),
		seed(devops, "GitHub Actions", "Continuous integration service", "popular", "github actions", "github-actions"),
		seed(devops, "Terraform", "Infrastructure as code tool", "popular", "terraform"),
		seed(devops, "Ansible", "Configuration management tool", "popular", "ansible"),
	}
}

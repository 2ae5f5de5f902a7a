package vocab

// defaultSkillKeywords 内置技能关键词表
func defaultSkillKeywords() []string {
	return []string{
		// 编程语言
		"python", "java", "javascript", "typescript", "golang", "rust",
		"kotlin", "swift", "ruby", "php", "scala", "perl", "matlab",
		"c++", "c#", "objective-c", "dart", "elixir", "haskell", "lua",
		// 前端
		"react", "vue", "angular", "svelte", "next.js", "nuxt",
		"html", "css", "sass", "tailwind", "webpack", "vite", "jquery",
		// 后端与框架
		"node.js", "express", "django", "flask", "fastapi", "spring",
		"gin", "hertz", "rails", "laravel", "asp.net", "grpc", "graphql",
		// 数据库与存储
		"mysql", "postgresql", "mongodb", "redis", "elasticsearch",
		"sqlite", "oracle", "cassandra", "dynamodb", "clickhouse",
		"qdrant", "milvus", "neo4j", "memcached",
		// 消息与流处理
		"kafka", "rabbitmq", "pulsar", "flink", "spark", "hadoop",
		// 云与运维
		"docker", "kubernetes", "terraform", "ansible", "jenkins",
		"aws", "azure", "gcp", "nginx", "linux", "prometheus", "grafana",
		"git", "gitlab", "github",
		// 机器学习
		"tensorflow", "pytorch", "keras", "scikit-learn", "pandas",
		"numpy", "opencv", "huggingface", "transformers", "langchain",
		"nlp", "llm", "bert",
		// 其他
		"rest", "microservices", "agile", "scrum", "jira", "figma",
	}
}

// defaultSynonyms 内置同义词表，变体(小写)到规范名
func defaultSynonyms() map[string]string {
	return map[string]string{
		"js":            "JavaScript",
		"javascript":    "JavaScript",
		"ts":            "TypeScript",
		"typescript":    "TypeScript",
		"go":            "Go",
		"golang":        "Go",
		"py":            "Python",
		"python":        "Python",
		"python3":       "Python",
		"nodejs":        "Node.js",
		"node":          "Node.js",
		"node.js":       "Node.js",
		"reactjs":       "React",
		"react.js":      "React",
		"react":         "React",
		"vuejs":         "Vue",
		"vue.js":        "Vue",
		"vue":           "Vue",
		"postgres":      "PostgreSQL",
		"postgresql":    "PostgreSQL",
		"mongo":         "MongoDB",
		"mongodb":       "MongoDB",
		"k8s":           "Kubernetes",
		"kubernetes":    "Kubernetes",
		"tf":            "TensorFlow",
		"tensorflow":    "TensorFlow",
		"sklearn":       "scikit-learn",
		"scikit-learn":  "scikit-learn",
		"ml":            "Machine Learning",
		"ai":            "AI",
		"nlp":           "NLP",
		"cpp":           "C++",
		"c++":           "C++",
		"csharp":        "C#",
		"c#":            "C#",
		"dotnet":        ".NET",
		".net":          ".NET",
		"springboot":    "Spring Boot",
		"spring boot":   "Spring Boot",
		"aws":           "AWS",
		"gcp":           "GCP",
		"html5":         "HTML",
		"css3":          "CSS",
		"restful":       "REST",
		"rest api":      "REST",
		"microservice":  "Microservices",
		"microservices": "Microservices",
	}
}

// defaultNoiseTokens 内置噪声词表，院校/学位/项目类词汇不应出现在技能列表里
func defaultNoiseTokens() []string {
	return []string{
		"university", "college", "institute", "academy", "school",
		"bachelor", "master", "phd", "doctorate", "degree", "diploma",
		"gpa", "honors", "graduate", "undergraduate",
		"science", "engineering", "technology", "management",
		"department", "faculty", "campus",
		"company", "inc", "ltd", "llc", "corp", "corporation",
		"project", "team", "experience", "work", "intern", "internship",
		"resume", "curriculum", "vitae",
		"大学", "学院", "学士", "硕士", "博士", "本科", "研究生",
	}
}

// shortTokenAllowlist 显式放行的短token，长度不足但确为有效技能名
func shortTokenAllowlist() []string {
	return []string{"ai", "ml", "go", "c", "c++", "c#", "r", "qa"}
}

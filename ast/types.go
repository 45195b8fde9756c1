package ast

// Canonical node types emitted by the normalizers. Keeping one enumeration
// here guards against drift between a normalizer and the extractors that
// consume its output.
const (
	// Python node types (python-grammar shapes lowered by the Python
	// normalizer).
	TypeModule           = "Module"
	TypeClassDef         = "ClassDef"
	TypeFunctionDef      = "FunctionDef"
	TypeAsyncFunctionDef = "AsyncFunctionDef"
	TypeCall             = "Call"
	TypeName             = "Name"
	TypeAttribute        = "Attribute"
	TypeConstant         = "Constant"
	TypeKeyword          = "keyword"
	TypeImport           = "Import"
	TypeImportFrom       = "ImportFrom"
	TypeAlias            = "alias"
	TypeAssign           = "Assign"
	TypeAugAssign        = "AugAssign"
	TypeAnnAssign        = "AnnAssign"
	TypeExpr             = "Expr"
	TypeList             = "List"
	TypeTuple            = "Tuple"
	TypeSet              = "Set"
	TypeDict             = "Dict"

	// Java node types (javac-style shapes lowered by the Java normalizer).
	TypeCompilationUnit         = "CompilationUnit"
	TypePackageDeclaration      = "PackageDeclaration"
	TypeImportDeclaration       = "ImportDeclaration"
	TypeClassDeclaration        = "ClassDeclaration"
	TypeInterfaceDeclaration    = "InterfaceDeclaration"
	TypeEnumDeclaration         = "EnumDeclaration"
	TypeAnnotationDeclaration   = "AnnotationDeclaration"
	TypeMethodDeclaration       = "MethodDeclaration"
	TypeConstructorDeclaration  = "ConstructorDeclaration"
	TypeMethodInvocation        = "MethodInvocation"
	TypeExplicitConstructorCall = "ExplicitConstructorInvocation"
	TypeClassCreator            = "ClassCreator"
	TypeIdentifier              = "Identifier"
	TypeFieldAccess             = "FieldAccess"
)

// Metadata keys the normalizers are contracted to fill. Downstream
// analyzers consult these and nothing else.
const (
	KeyValue       = "value"       // constant literal / dotted attribute string
	KeyID          = "id"          // identifier text (Python Name)
	KeyCtx         = "ctx"         // identifier context role: Load or Store
	KeyAttr        = "attr"        // final attribute segment (Python Attribute)
	KeyFunc        = "func"        // dotted call target (Python Call)
	KeyArg         = "arg"         // keyword-argument parameter name
	KeyDecorators  = "decorators"  // []Annotation on Python defs
	KeyAnnotations = "annotations" // []Annotation on Java declarations
	KeyModules     = "modules"     // imported targets ([]string)
	KeyModule      = "module"      // ImportFrom source module
	KeyName        = "name"        // plain identifier text (Java)
	KeyPath        = "path"        // import path (Java ImportDeclaration)
	KeyQualifier   = "qualifier"   // invocation qualifier (Java)
	KeyBases       = "bases"       // class bases ([]string)
)

// Identifier context roles stored under KeyCtx.
const (
	CtxLoad  = "Load"
	CtxStore = "Store"
)

package infra

// ClassificationsTable holds one item per recognized image.
var ClassificationsTable = ResourceDef{
	Type: "AWS::DynamoDB::Table",
	Properties: map[string]any{
		"BillingMode": "PAY_PER_REQUEST",
		"AttributeDefinitions": []any{
			map[string]any{"AttributeName": "image", "AttributeType": "S"},
		},
		"KeySchema": []any{
			map[string]any{"AttributeName": "image", "KeyType": "HASH"},
		},
	},
}

var RecognitionFunctionRole = lambdaRole("recognize-images",
	statement([]string{"dynamodb:PutItem", "dynamodb:UpdateItem", "dynamodb:BatchWriteItem"}, GetAtt{"ClassificationsTable", "Arn"}),
	statement([]string{"sqs:ReceiveMessage", "sqs:DeleteMessage", "sqs:GetQueueAttributes"}, GetAtt{"UploadQueue", "Arn"}),
	statement([]string{"sns:Publish"}, Ref("RekognizedTopic")),
	statement([]string{"rekognition:DetectLabels"}, "*"),
	statement([]string{"s3:GetObject"}, Sub("${ImagesBucket.Arn}/*")),
)

// RecognitionFunction labels each uploaded image and announces the result.
var RecognitionFunction = function("recognize-image.zip", "RecognitionFunctionRole", 30, map[string]any{
	"TABLE_NAME":    Ref("ClassificationsTable"),
	"SQS_QUEUE_URL": Ref("UploadQueue"),
	"TOPIC_ARN":     Ref("RekognizedTopic"),
})

var RecognitionEventSource = queueSource("UploadQueue", "RecognitionFunction")

var ListFunctionRole = lambdaRole("read-classifications",
	statement([]string{"dynamodb:Scan", "dynamodb:GetItem", "dynamodb:Query", "dynamodb:DescribeTable"}, GetAtt{"ClassificationsTable", "Arn"}),
)

// ListFunction pages through ClassificationsTable.
var ListFunction = function("list-images.zip", "ListFunctionRole", 30, map[string]any{
	"TABLE_NAME": Ref("ClassificationsTable"),
})

var ListAPI = restAPI("List Images Service", "List recognized images.")

var ListMethod = rootGet("ListAPI", "ListFunction", nil)

var ListDeployment = deployment("ListAPI", "ListMethod")

var ListPermission = invokePermission("ListAPI", "ListFunction")
